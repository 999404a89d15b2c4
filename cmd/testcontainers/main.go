package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/localnerve/nutradaily/internal/testutil"
)

func main() {
	var showHelp bool
	flag.BoolVar(&showHelp, "h", false, "show help")
	var envFilename string
	flag.StringVar(&envFilename, "f", "", "path to the .env file")
	flag.Parse()

	usage := `
Run a nutradaily database in a testcontainer with the environment variables from the .env file.
The server can then be started with DB_HOST and DB_PORT set to the printed values.

Usage:

testcontainers [-h] [-f ENV_FILE_PATH]

ENV_FILE_PATH: path to the .env file (DB_TYPE, DB_IMAGE, DB_DATABASE, DB_USER, DB_PASSWORD)

example
  testcontainers -f /path/to/something/.env
`
	// if -h flag print usage and return
	if showHelp {
		fmt.Println(usage)
		return
	}

	if envFilename != "" {
		log.Printf("Loading environment variables from %s\n", envFilename)
		if err := godotenv.Load(envFilename); err != nil {
			log.Fatalf("Failed to load environment variables: %v\n", err)
		}
	} else {
		log.Printf("No environment file specified, using current environment variables\n")
	}

	dbType := os.Getenv("DB_TYPE")
	image := os.Getenv("DB_IMAGE")
	if dbType == "" || image == "" {
		log.Fatalf("DB_TYPE and DB_IMAGE are required\n")
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	dc, err := testutil.StartDatabase(nil, dbType, image)
	if err != nil {
		log.Fatalf("Failed to create test container: %v\n", err)
	}

	sig := <-sigs
	log.Printf("\nReceived signal: %v, terminating test container...\n", sig)
	dc.Terminate(nil)
}
