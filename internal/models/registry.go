package models

// All lists every persisted model in dependency order for schema migration.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Course{},
		&Unit{},
		&Section{},
		&Lesson{},
		&Task{},
		&QuizQuestion{},
		&UserActivity{},
		&UserProgress{},
		&LevelCheckAttempt{},
	}
}
