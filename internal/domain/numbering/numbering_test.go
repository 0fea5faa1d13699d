package numbering_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda360-api/internal/domain"
	"github.com/jhoicas/tienda360-api/internal/domain/numbering"
)

var day = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

func TestNext_PrimerNumeroDelDia(t *testing.T) {
	n, err := numbering.Next("V", day, "")
	require.NoError(t, err)
	assert.Equal(t, "V202403150001", n)
}

func TestNext_IncrementaElMayor(t *testing.T) {
	n, err := numbering.Next("V", day, "V202403150041")
	require.NoError(t, err)
	assert.Equal(t, "V202403150042", n)
}

func TestNext_DesbordaElAncho(t *testing.T) {
	n, err := numbering.Next("A", day, "A202403159999")
	require.NoError(t, err)
	assert.Equal(t, "A2024031510000", n)
}

func TestNext_SufijoNoNumerico_FallaCerrado(t *testing.T) {
	_, err := numbering.Next("V", day, "V20240315ABCD")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrIntegrity)
}

func TestNext_NumeroDeOtroPrefijo(t *testing.T) {
	_, err := numbering.Next("V", day, "A202403150001")
	assert.ErrorIs(t, err, domain.ErrIntegrity)
}

func TestNext_LetraRequerida(t *testing.T) {
	_, err := numbering.Next("", day, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSequence(t *testing.T) {
	seq, err := numbering.Sequence("V20240315", "V202403150007")
	require.NoError(t, err)
	assert.Equal(t, 7, seq)
}
