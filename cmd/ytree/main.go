// cmd/ytree/main.go
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/dewid/ytree/internal/bptree"
	"github.com/dewid/ytree/internal/cli"
	"github.com/dewid/ytree/internal/env"
)

const progname = "ytree"

func main() {
	dataFile := progname + ".ydb"
	if _, err := os.Stat(dataFile); os.IsNotExist(err) {
		e, err := env.Open(dataFile, 0)
		if err != nil {
			log.Fatalf("ytree: %v", err)
		}
		e.Close()
	}

	opts := bptree.Options{}
	if len(os.Args) > 1 {
		order, err := parseOrder(os.Args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		opts.Order = order
	}

	db, err := bptree.Open(opts)
	if err != nil {
		log.Fatalf("ytree: %v", err)
	}
	defer db.Close()

	fmt.Printf("%s version %s\n\n", progname, bptree.Version)

	dispatcher := cli.NewDispatcher(db, 0)
	fmt.Print(dispatcher.Status())
	fmt.Println()
	fmt.Print(dispatcher.Help())

	if len(os.Args) > 2 {
		if err := cli.InsertKeysFromFile(db, os.Args[2]); err != nil {
			log.Fatalf("ytree: %v", err)
		}
		db.PrintTree(os.Stdout)
	}

	if err := cli.Run(dispatcher, os.Stdout); err != nil {
		log.Fatalf("ytree: %v", err)
	}
}

func parseOrder(s string) (int, error) {
	var order int
	if _, err := fmt.Sscanf(s, "%d", &order); err != nil {
		return 0, fmt.Errorf("ytree: invalid order: %s", s)
	}
	return order, nil
}
