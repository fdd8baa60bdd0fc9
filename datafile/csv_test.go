package datafile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type csvUser struct {
	Name    *string `csv:"name,omitempty"`
	MaxSize int     `csv:"max_size"`
	IsAbove bool    `csv:"is_above"`
}

func TestReadCSV(t *testing.T) {
	t.Parallel()

	in := "name,max_size,is_above\nalice,3,true\n,0,false\nbob,10,false\n"

	users, err := ReadCSV[csvUser](strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, users, 3)

	require.NotNil(t, users[0].Name)
	assert.Equal(t, "alice", *users[0].Name)
	assert.Equal(t, 3, users[0].MaxSize)
	assert.True(t, users[0].IsAbove)

	assert.Nil(t, users[1].Name)
	assert.Equal(t, 10, users[2].MaxSize)
}

func TestReadCSV_HeaderBindsByName(t *testing.T) {
	t.Parallel()

	in := "is_above,extra,max_size,name\nfalse,x,7,carol\n"

	users, err := ReadCSV[csvUser](strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, 7, users[0].MaxSize)
	assert.Equal(t, "carol", *users[0].Name)
}

func TestReadCSV_MissingColumn(t *testing.T) {
	t.Parallel()

	_, err := ReadCSV[csvUser](strings.NewReader("name,max_size\nalice,3\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is_above")
}

func TestReadCSV_BadValueStopsDecoding(t *testing.T) {
	t.Parallel()

	in := "name,max_size,is_above\nalice,3,true\nbob,many,false\ncarol,1,true\n"

	users, err := ReadCSV[csvUser](strings.NewReader(in))
	require.Error(t, err)
	assert.Nil(t, users)
	assert.Contains(t, err.Error(), "row 2")
}

func TestReadCSV_Empty(t *testing.T) {
	t.Parallel()

	users, err := ReadCSV[csvUser](strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, users)

	users, err = ReadCSV[csvUser](strings.NewReader("name,max_size,is_above\n"))
	require.NoError(t, err)
	assert.Empty(t, users)
}
