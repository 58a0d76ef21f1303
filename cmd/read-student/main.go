// Command read-student prints the student stored under the given id.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"student-orm/internal/app"
	"student-orm/internal/config"
	"student-orm/internal/logger"

	"github.com/joho/godotenv"
)

func main() {
	id := flag.Int64("id", 1, "primary key of the student to read")
	flag.Parse()

	_ = godotenv.Load()

	if err := run(context.Background(), *id); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, id int64) error {
	slogLogger := logger.NewWithServiceContext("read-student", app.Version)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	components, err := app.Build(ctx, cfg, slogLogger)
	if err != nil {
		return err
	}
	defer components.Close()

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	s, err := components.Service.GetStudentByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to read student %d: %w", id, err)
	}

	fmt.Println(s)
	return nil
}
