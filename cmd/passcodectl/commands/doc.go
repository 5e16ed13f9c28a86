// Package commands содержит команды passcodectl: генерацию и проверку кодов,
// просмотр пользователей и управление миграциями.
package commands
