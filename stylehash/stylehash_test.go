package stylehash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const styleDoc = `<!DOCTYPE qgis PUBLIC 'http://mrcc.com/qgis.dtd' 'SYSTEM'>
<qgis version="3.34.4" styleCategories="Symbology">
  <renderer-v2 type="singleSymbol" enableorderby="0">
    <symbols>
      <symbol name="0" type="fill" alpha="1">
        <layer class="SimpleFill" enabled="1">
          <prop k="color" v="125,139,143,255"/>
          <prop k="outline_width" v="0.26"/>
        </layer>
      </symbol>
    </symbols>
  </renderer-v2>
  <blendMode>0</blendMode>
</qgis>`

// same document, sibling elements and attributes shuffled
const styleDocShuffled = `<qgis styleCategories="Symbology" version="3.34.4">
  <blendMode>0</blendMode>
  <renderer-v2 enableorderby="0" type="singleSymbol">
    <symbols>
      <symbol type="fill" alpha="1" name="0">
        <layer enabled="1" class="SimpleFill">
          <prop v="0.26" k="outline_width"/>
          <prop v="125,139,143,255" k="color"/>
        </layer>
      </symbol>
    </symbols>
  </renderer-v2>
</qgis>`

func TestHash_StableUnderReordering(t *testing.T) {
	h1, err := Hash(styleDoc)
	require.NoError(t, err)
	h2, err := Hash(styleDocShuffled)
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
}

func TestHash_SensitiveToAttributeChange(t *testing.T) {
	h1, err := Hash(styleDoc)
	require.NoError(t, err)

	changed := `<qgis version="3.34.4" styleCategories="Symbology">
  <renderer-v2 type="singleSymbol" enableorderby="0">
    <symbols>
      <symbol name="0" type="fill" alpha="1">
        <layer class="SimpleFill" enabled="1">
          <prop k="color" v="200,0,0,255"/>
          <prop k="outline_width" v="0.26"/>
        </layer>
      </symbol>
    </symbols>
  </renderer-v2>
  <blendMode>0</blendMode>
</qgis>`
	h2, err := Hash(changed)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestHash_SensitiveToTextChange(t *testing.T) {
	h1, err := Hash(`<qgis><blendMode>0</blendMode></qgis>`)
	require.NoError(t, err)
	h2, err := Hash(`<qgis><blendMode>5</blendMode></qgis>`)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestHash_RepeatedSiblingsPermutation(t *testing.T) {
	h1, err := Hash(`<s><p k="a"/><p k="b"/><p k="c"/></s>`)
	require.NoError(t, err)
	h2, err := Hash(`<s><p k="c"/><p k="a"/><p k="b"/></s>`)
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
}

func TestHash_DoctypeIgnored(t *testing.T) {
	h1, err := Hash(`<qgis version="1"/>`)
	require.NoError(t, err)
	h2, err := Hash("<!DOCTYPE qgis SYSTEM 'qgis.dtd'>\n<qgis version=\"1\"/>")
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
}

func TestHash_ParseErrors(t *testing.T) {
	for _, doc := range []string{
		"",
		"   ",
		"<qgis><unclosed></qgis>",
		"not xml at all",
		"<a/><b/>",
	} {
		_, err := Hash(doc)
		require.ErrorIs(t, err, ErrStyleParse, "doc: %q", doc)
	}
}

func TestHash_Deterministic(t *testing.T) {
	h1, err := Hash(styleDoc)
	require.NoError(t, err)
	h2, err := Hash(styleDoc)
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64)
}
