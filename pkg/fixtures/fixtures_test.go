package fixtures_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pay-theory/dynamock/pkg/fixtures"
)

type product struct {
	SKU   string   `yaml:"sku"`
	Price float64  `yaml:"price"`
	Tags  []string `yaml:"tags"`
}

const productsYAML = `
- sku: A-1
  price: 9.99
  tags: [sale]
- sku: B-2
  price: 20
`

func TestDecode(t *testing.T) {
	items, err := fixtures.Decode[product](strings.NewReader(productsYAML))
	require.NoError(t, err)
	assert.Equal(t, []product{
		{SKU: "A-1", Price: 9.99, Tags: []string{"sale"}},
		{SKU: "B-2", Price: 20},
	}, items)
}

func TestDecode_Empty(t *testing.T) {
	items, err := fixtures.DecodeBytes[product](nil)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestDecode_UnknownField(t *testing.T) {
	_, err := fixtures.DecodeBytes[product]([]byte("- sku: A\n  colour: red\n"))
	assert.Error(t, err)
}

func TestDecode_NotASequence(t *testing.T) {
	_, err := fixtures.DecodeBytes[product]([]byte("sku: A\n"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.yaml")
	require.NoError(t, os.WriteFile(path, []byte(productsYAML), 0o600))

	items, err := fixtures.Load[product](path)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	_, err = fixtures.Load[product](filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
