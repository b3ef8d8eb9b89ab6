// mdadump inspects synApps MDA scan files and folders.
package main

func main() {
	Execute()
}
