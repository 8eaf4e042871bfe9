package author_test

import (
	"testing"

	"github.com/SergeyParamoshkin/articlefront/internal/author"
	"github.com/stretchr/testify/require"
)

func TestFirst(t *testing.T) {
	require.Equal(t, "Smith", author.First("Smith, Jones"))
	require.Equal(t, "Smith", author.First("Smith"))
	require.Equal(t, "", author.First(""))
	require.Equal(t, "Smith", author.First("  Smith , Jones"))
	require.Equal(t, "", author.First(", Jones"))
	require.Equal(t, "A. B. Carter", author.First("A. B. Carter,D. Evans, F. Gray"))
}
