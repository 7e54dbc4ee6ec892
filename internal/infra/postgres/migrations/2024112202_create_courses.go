package migrations

import _ "embed"

//go:embed 2024112202_create_courses.up.sql
var createCoursesSQL string

func init() {
	Migrations.MustRegister(exec(createCoursesSQL), exec(`DROP TABLE IF EXISTS courses`))
}
