package migrations

import "embed"

// Migrations содержит SQL-файлы миграций, встроенные в бинарник.
// Имена файлов в формате golang-migrate: NNNNNN_name.{up,down}.sql.
//
//go:embed *.sql
var Migrations embed.FS
