package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListingRun_Counts(t *testing.T) {
	run := ListingRun{Categories: []ListingSummary{
		{Key: "goldbox", Status: "ok", ProductCount: 3},
		{Key: "coupangPL", Status: "empty"},
		{Key: "bestcategories:1001", Status: "ok", ProductCount: 1},
		{Key: "bestcategories:1002", Status: "failed", Reason: "upstream returned 500"},
	}}

	assert.Equal(t, map[string]int{"ok": 2, "empty": 1, "failed": 1}, run.Counts())
}

func TestListingRun_CountsEmpty(t *testing.T) {
	assert.Empty(t, ListingRun{}.Counts())
}
