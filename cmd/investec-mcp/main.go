package main

import (
	"log"
	"os"

	investec "github.com/openbank-tools/investec-mcp"
	_ "github.com/viant/scy/kms/blowfish"
)

func main() {
	if err := investec.Run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}
