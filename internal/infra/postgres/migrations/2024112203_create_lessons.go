package migrations

import _ "embed"

//go:embed 2024112203_create_lessons.up.sql
var createLessonsSQL string

func init() {
	Migrations.MustRegister(exec(createLessonsSQL), exec(`DROP TABLE IF EXISTS lessons`))
}
