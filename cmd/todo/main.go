package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/GoSim-25-26J-441/todo-service/internal/client"
	"github.com/GoSim-25-26J-441/todo-service/internal/todofile"
	"github.com/GoSim-25-26J-441/todo-service/internal/tui"
)

func main() {
	defaultAddr := os.Getenv("TODO_API_URL")
	if defaultAddr == "" {
		defaultAddr = "http://localhost:8080"
	}
	addr := flag.String("addr", defaultAddr, "base URL of the todo API")
	importPath := flag.String("import", "", "create the items listed in a YAML file and exit")
	exportPath := flag.String("export", "", "write the current list to a YAML file and exit")
	flag.Parse()

	api, err := client.New(*addr)
	if err != nil {
		fail(err)
		os.Exit(2)
	}

	switch {
	case *importPath != "":
		err = runImport(api, *importPath)
	case *exportPath != "":
		err = runExport(api, *exportPath)
	default:
		err = tui.Run(api)
	}
	if err != nil {
		fail(err)
		os.Exit(1)
	}
}

func runImport(api *client.Client, path string) error {
	f, err := todofile.ParseYAML(path)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := todofile.Import(ctx, api, f)
	fmt.Printf("imported %d item(s) from %s\n", n, path)
	return err
}

func runExport(api *client.Client, path string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	f, err := todofile.Export(ctx, api)
	if err != nil {
		return err
	}
	if err := todofile.WriteYAML(path, f); err != nil {
		return err
	}
	fmt.Printf("exported %d item(s) to %s\n", len(f.Todos), path)
	return nil
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "✖ "+err.Error())
}
