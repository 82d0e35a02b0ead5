package main

import (
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"

	"crypto_cashier/internal/migrations"
)

func main() {
	apply := flag.Bool("apply", false, "apply pending migrations")
	down := flag.Bool("down", false, "roll back every migration")
	flag.Parse()

	if !*apply && !*down {
		names, err := fs.Glob(migrations.FS(), "*.sql")
		if err != nil {
			log.Fatalf("list migrations: %v", err)
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	if *down {
		if err := migrations.Down(dsn); err != nil {
			log.Fatalf("migrate down: %v", err)
		}
		fmt.Println("rolled back")
		return
	}

	v, err := migrations.Up(dsn)
	if err != nil {
		log.Fatalf("migrate up: %v", err)
	}
	fmt.Printf("schema at version %d\n", v)
}
