package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDSN(t *testing.T) {
	tests := []struct {
		name    string
		sslMode string
		want    string
	}{
		{"default ssl mode", "", "postgres://app:p%40ss@db:5432/insight?sslmode=disable"},
		{"explicit", "require", "postgres://app:p%40ss@db:5432/insight?sslmode=require"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DSN("app", "p@ss", "db", 5432, "insight", tt.sslMode))
		})
	}
}
