// Command studenttrack is the back-office CLI for the tutoring business:
// browse groups and students, manage group membership and track payments
// against the remote API.
package main

import "os"

func main() {
	os.Exit(execute())
}
