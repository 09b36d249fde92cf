package elements

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessingLog_AppendOrder(t *testing.T) {
	log := NewProcessingLog()
	log.AddItem("first", "StepA")
	log.AddItem("second", "StepB")

	items := log.Items()
	require.Len(t, items, 2)
	assert.Equal(t, LogItem{Origin: "StepA", Message: "first"}, items[0])
	assert.Equal(t, LogItem{Origin: "StepB", Message: "second"}, items[1])
}

func TestProcessingLog_CopyIsIndependent(t *testing.T) {
	log := NewProcessingLog()
	log.AddItem("original", "StepA")

	cp := log.Copy()
	cp.AddItem("copy only", "StepB")
	log.AddItem("original only", "StepC")

	assert.Equal(t, 2, cp.Len())
	assert.Equal(t, 2, log.Len())
	assert.Equal(t, "copy only", cp.Items()[1].Message)
	assert.Equal(t, "original only", log.Items()[1].Message)
}

func TestNewTitleElement_RecordsConstruction(t *testing.T) {
	title := NewTitleElement(nil, nil, 6, "TitleClassifier")

	items := title.Log().Items()
	require.Len(t, items, 1)
	assert.Equal(t, "TitleElement (level 6)", items[0].Message)
	assert.Equal(t, "TitleClassifier", items[0].Origin)
}

func TestNewTitleElement_SharesProvidedLog(t *testing.T) {
	log := NewProcessingLog()
	log.AddItem("earlier", "Scanner")

	title := NewTitleElement(nil, log, 0, "TitleClassifier")

	assert.Same(t, log, title.Log())
	assert.Equal(t, 2, log.Len())
}
