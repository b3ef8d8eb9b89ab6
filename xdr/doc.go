// Package xdr implements the big-endian, length-prefixed binary
// serialization layer used by synApps MDA scan files. It is an External
// Data Representation style wire format: multi-byte values are stored in
// network byte order, variable-length data carries a 4-byte length prefix
// and is padded with zero bytes to a 4-byte boundary.
//
// The format is not self-describing. A Packer and the matching Unpacker
// must agree, out of band, on the exact sequence of typed operations; the
// stream carries no type tags and arrays carry no element count.
//
// The mapping from wire types to Go is:
//
//	wire                    | Go
//	------------------------+------------------
//	unsigned int (4 bytes)  | uint32
//	int (4 bytes)           | int32
//	hyper (8 bytes)         | int64
//	float (IEEE-754 single) | float32
//	double (IEEE-754 double)| float64
//	fixed string/opaque[n]  | []byte, length n
//	string/opaque<>         | []byte, padded
//	list<T>                 | []T, count prefix
//	array[n] of T           | []T, no prefix
//
// Neither Packer nor Unpacker performs I/O or is safe for concurrent use;
// construct one instance per encode or decode session.
package xdr
