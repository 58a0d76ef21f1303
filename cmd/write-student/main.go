// Command write-student persists two sample students in one transaction.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"student-orm/internal/app"
	"student-orm/internal/config"
	"student-orm/internal/logger"
	"student-orm/internal/student"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	if err := run(context.Background()); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context) error {
	slogLogger := logger.NewWithServiceContext("write-student", app.Version)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	students, err := samples()
	if err != nil {
		return err
	}

	components, err := app.Build(ctx, cfg, slogLogger)
	if err != nil {
		return err
	}
	defer components.Close()

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := components.Service.CreateStudents(ctx, students); err != nil {
		return fmt.Errorf("failed to persist students: %w", err)
	}

	for _, s := range students {
		slogLogger.Info("student persisted", "id", s.ID, "name", s.Name)
	}
	return nil
}

func samples() ([]*student.Student, error) {
	lee, err := newStudent("Lee", "1999-01-01", student.GroupDaisy)
	if err != nil {
		return nil, err
	}
	amal, err := newStudent("Amal", "1980-01-01", student.GroupLotus)
	if err != nil {
		return nil, err
	}
	return []*student.Student{lee, amal}, nil
}

func newStudent(name, dob string, group student.Group) (*student.Student, error) {
	d, err := time.Parse(student.DateLayout, dob)
	if err != nil {
		return nil, fmt.Errorf("invalid date of birth for %s: %w", name, err)
	}
	return &student.Student{Name: name, DateOfBirth: d, Group: group}, nil
}
