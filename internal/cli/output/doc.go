// Package output formats demo-cli results as a table, JSON or YAML.
package output
