package main

import (
	"github.com/spf13/cobra"

	"github.com/noah-isme/lingua-go-api/internal/config"
)

var recomputeCmd = &cobra.Command{
	Use:   "recompute-progress",
	Short: "Rebuild a learner's course progress from recorded activity",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, _ := cmd.Flags().GetUint("user")
		courseID, _ := cmd.Flags().GetUint("course")

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logger := newLogger(cfg.AppEnv)

		deps, err := connect(cfg, logger)
		if err != nil {
			return err
		}
		defer deps.Close()

		progress, err := deps.services(cmd.Context()).progress.Recompute(cmd.Context(), userID, courseID)
		if err != nil {
			return err
		}

		logger.Info().
			Uint("user_id", progress.UserID).
			Uint("course_id", progress.CourseID).
			Int("completed_lessons", progress.CompletedLessons).
			Int("total_lessons", progress.TotalLessons).
			Int("progress_percentage", progress.ProgressPercentage).
			Msg("progress recomputed")
		return nil
	},
}

func init() {
	recomputeCmd.Flags().Uint("user", 0, "Learner id")
	recomputeCmd.Flags().Uint("course", 0, "Course id")
	_ = recomputeCmd.MarkFlagRequired("user")
	_ = recomputeCmd.MarkFlagRequired("course")
}
