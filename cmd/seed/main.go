package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"
	"toloka-kit/domain/model"
	"toloka-kit/repositories"
	"toloka-kit/resources"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/kelseyhightower/envconfig"
	"github.com/mama165/sdk-go/logs"
)

type Config struct {
	BadgerFilepath string `envconfig:"BADGER_FILEPATH" required:"true"`
	LogLevel       string `envconfig:"LOG_LEVEL" default:"INFO"`
	// SEED_COUNT is the number of trainings and attachments written
	Count int `envconfig:"SEED_COUNT" default:"10"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer db.Close()
	repository := repositories.NewResourceRepository(db, log, nil)

	now := time.Now().UTC()
	for i := 0; i < config.Count; i++ {
		owner := map[string]any{"id": uuid.NewString(), "myself": i%2 == 0}
		training, err := resources.ParseTraining(sampleTraining(i, owner, now))
		if err != nil {
			return err
		}
		if err = repository.StoreResource("training", training); err != nil {
			return err
		}

		attachment, err := resources.ParseAttachment(sampleAttachment(i, owner, now), model.WithLogger(log))
		if err != nil {
			return err
		}
		if err = repository.StoreResource("attachment", attachment); err != nil {
			return err
		}
	}
	log.Info("Seed done", slog.Int("trainings", config.Count), slog.Int("attachments", config.Count))
	return nil
}

func sampleTraining(i int, owner map[string]any, now time.Time) model.Mapping {
	statuses := resources.TrainingStatuses.Members()
	return model.Mapping{
		"id":                                 uuid.NewString(),
		"project_id":                         uuid.NewString(),
		"private_name":                       fmt.Sprintf("Training #%d", i),
		"may_contain_adult_content":          false,
		"assignment_max_duration_seconds":    600,
		"training_tasks_in_task_suite_count": 1 + i%5,
		"task_suites_required_to_pass":       1 + i%3,
		"retry_training_after_days":          7,
		"public_instructions":                "<p>Select every picture showing a cat and skip the others.</p>",
		"owner":                              owner,
		"status":                             statuses[i%len(statuses)].String(),
		"created":                            model.FormatDateTime(now.Add(-time.Duration(i) * time.Hour)),
	}
}

// Every fourth attachment has a type this client has no variant for.
func sampleAttachment(i int, owner map[string]any, now time.Time) model.Mapping {
	kind := resources.AssignmentAttachmentType.String()
	if i%4 == 3 {
		kind = "TASK_ATTACHMENT"
	}
	return model.Mapping{
		"attachment_type": kind,
		"id":              uuid.NewString(),
		"name":            fmt.Sprintf("photo-%d.jpg", i),
		"media_type":      "image/jpeg",
		"created":         model.FormatDateTime(now),
		"owner":           owner,
		"details": map[string]any{
			"user_id":       uuid.NewString(),
			"assignment_id": uuid.NewString(),
			"pool_id":       uuid.NewString(),
		},
	}
}
