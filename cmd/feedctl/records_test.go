package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bilgisen/titan/internal/models"
)

func TestRecordRows(t *testing.T) {
	records := []models.FeedRecord{
		{"Alpha", "$10", strings.Repeat("x", 70), "a"},
	}

	rows := recordRows(models.KindPortfolio, records, "https://img.example.com/d.png")
	require.Len(t, rows, 1)
	assert.Len(t, rows[0], len(recordHeaders(models.KindPortfolio)))
	assert.Equal(t, strings.Repeat("x", 60)+"...", rows[0][2])
	assert.Equal(t, "https://img.example.com/d.png", rows[0][3])

	blog := recordRows(models.KindBlog, []models.FeedRecord{{"slug"}}, "")
	require.Len(t, blog, 1)
	assert.Len(t, blog[0], len(recordHeaders(models.KindBlog)))
	assert.Equal(t, "slug", blog[0][1])
}
