// Command sectionforge builds Liquid section templates with external schemas.
//
// Release builds stamp version metadata with
//
//	go build -ldflags "-X github.com/tacogips/sectionforge/internal/version.Version=x.y.z" ./cmd/sectionforge
package main

import "github.com/tacogips/sectionforge/internal/cli"

func main() {
	cli.Execute()
}
