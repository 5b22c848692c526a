package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/noah-isme/lingua-go-api/internal/config"
	"github.com/noah-isme/lingua-go-api/internal/dto"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed a course tree from a JSON file",
	Long:  "Reads a course definition in the same shape accepted by POST /api/v2/admin/seed/courses and stores it. Courses are matched by title, so re-running is safe.",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("file")
		if path == "" {
			return fmt.Errorf("--file is required")
		}

		payload, err := readSeedFile(path)
		if err != nil {
			return err
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		// The CLI runs with operator access, so the HTTP token gate is satisfied locally.
		cfg.SeedEnabled = true
		if cfg.SeedToken == "" {
			cfg.SeedToken = "cli"
		}
		logger := newLogger(cfg.AppEnv)

		deps, err := connect(cfg, logger)
		if err != nil {
			return err
		}
		defer deps.Close()

		result, err := deps.services(cmd.Context()).seed.SeedCourse(cmd.Context(), cfg.SeedToken, payload)
		if err != nil {
			return err
		}

		logger.Info().
			Uint("course_id", result.CourseID).
			Bool("created", result.Created).
			Int("lessons", result.Lessons).
			Int("tasks", result.Tasks).
			Int("questions", result.Questions).
			Msg("course seeded")
		return nil
	},
}

func init() {
	seedCmd.Flags().StringP("file", "f", "", "Path to a course JSON file")
}

func readSeedFile(path string) (dto.SeedCourseRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return dto.SeedCourseRequest{}, fmt.Errorf("read seed file: %w", err)
	}
	var payload dto.SeedCourseRequest
	if err := json.Unmarshal(data, &payload); err != nil {
		return dto.SeedCourseRequest{}, fmt.Errorf("parse seed file: %w", err)
	}
	return payload, nil
}
