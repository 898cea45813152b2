// Tagwarden - multi-region tag governance for cloud resources
package main

func main() {
	Execute()
}
