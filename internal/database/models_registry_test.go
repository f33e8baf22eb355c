package database

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm/schema"
)

func TestPersistentModels_TableNames(t *testing.T) {
	var names []string
	for _, model := range PersistentModels() {
		s, err := schema.Parse(model, &sync.Map{}, schema.NamingStrategy{})
		if assert.NoError(t, err) {
			names = append(names, s.Table)
		}
	}
	assert.ElementsMatch(t, []string{
		"users", "categories", "posts", "favorites", "messages", "notifications", "ratings",
	}, names)
}
