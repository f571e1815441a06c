package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%mouse%", ContainsPattern("mouse"))
	assert.Equal(t, "%!%%", ContainsPattern("%"))
	assert.Equal(t, "%a!_b%", ContainsPattern("a_b"))
	assert.Equal(t, "%50!!%", ContainsPattern("50!"))
}

func TestContainsPatternMatchesWildcardsLiterally(t *testing.T) {
	conn, err := NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.Exec(`CREATE TABLE notes (body TEXT)`).Error)
	require.NoError(t, conn.Exec(`INSERT INTO notes (body) VALUES ('plain'), ('100% cotton'), ('snake_case'), ('wow!')`).Error)

	count := func(term string) int64 {
		var n int64
		require.NoError(t, conn.Table("notes").Where("body LIKE ? ESCAPE '"+LikeEscape+"'", ContainsPattern(term)).Count(&n).Error)
		return n
	}

	assert.Equal(t, int64(1), count("%"))
	assert.Equal(t, int64(1), count("_"))
	assert.Equal(t, int64(1), count("!"))
	assert.Equal(t, int64(1), count("cotton"))
}
