package runlog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpen_MigratesAndRecords(t *testing.T) {
	l, err := Open()
	require.NoError(t, err)
	defer l.Close()

	l.Record(EventRotation, "active=50 dormant=100")
	l.Record(EventGovernor, "low_memory=true")
	l.Record(EventRotation, "active=51 dormant=99")

	require.EqualValues(t, 2, l.CountByKind(EventRotation))
	require.EqualValues(t, 1, l.CountByKind(EventGovernor))

	recent := l.Recent(2)
	require.Len(t, recent, 2)
}

func TestRecent_ReturnsNewestFirst(t *testing.T) {
	l, err := Open()
	require.NoError(t, err)
	defer l.Close()

	l.Record(EventMeshDecay, "first")
	l.Record(EventMeshRebroadcast, "second")

	recent := l.Recent(10)
	require.Len(t, recent, 2)
	require.Equal(t, "second", recent[0].Detail)
}
