package todoform

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/todolist/internal/controller"
	"github.com/nhle/todolist/internal/model"
)

func TestStartCreate(t *testing.T) {
	m := New(80, 24)
	assert.Empty(t, m.View())

	m.StartCreate()
	assert.Equal(t, controller.FormCreate, m.State().Mode())
	assert.Contains(t, m.View(), "New Todo")
}

func TestStartEdit(t *testing.T) {
	m := New(80, 24)
	m.StartEdit(model.Todo{ID: "t3", Text: "Walk dog", Color: model.ColorGreen})

	assert.Equal(t, controller.FormEdit, m.State().Mode())
	assert.Equal(t, "Walk dog", m.State().Text)
	assert.Equal(t, model.ColorGreen, m.State().Color)
	assert.Contains(t, m.View(), "Edit Todo")
}

func TestSubmitEmptyKeepsFormOpen(t *testing.T) {
	m := New(80, 24)
	m.StartCreate()

	m, _ = m.submit()
	require.NotNil(t, m.form)
	assert.True(t, m.State().IsOpen())
	assert.Equal(t, "Please enter a todo text", m.err)
	assert.Contains(t, m.View(), "Please enter a todo text")
}

func TestSubmitEmitsSubmission(t *testing.T) {
	m := New(80, 24)
	m.StartEdit(model.Todo{ID: "t3", Text: "Walk dog"})
	m.State().Text = "Walk the dog"

	m, cmd := m.submit()
	require.NotNil(t, cmd)
	assert.Equal(t, SubmitMsg{Submission: controller.Submission{ID: "t3", Text: "Walk the dog"}}, cmd())
	assert.False(t, m.State().IsOpen())
	assert.Empty(t, m.View())
}

func TestStartEditKeepsUnknownColor(t *testing.T) {
	m := New(80, 24)
	m.StartEdit(model.Todo{ID: "t4", Text: "Paint fence", Color: "pink"})
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	assert.Equal(t, "pink", m.State().Color)
	assert.Contains(t, m.View(), "Pink")

	m.State().Text = "Paint the fence"
	_, cmd := m.submit()
	require.NotNil(t, cmd)
	assert.Equal(t, SubmitMsg{Submission: controller.Submission{ID: "t4", Text: "Paint the fence", Color: "pink"}}, cmd())
}

func TestColorOptions(t *testing.T) {
	assert.Len(t, colorOptions(model.ColorBlue), len(model.TodoColors))
	assert.Len(t, colorOptions(""), len(model.TodoColors))

	opts := colorOptions("pink")
	require.Len(t, opts, len(model.TodoColors)+1)
	assert.Equal(t, "pink", opts[len(opts)-1].Value)
}

func TestStartCreateDropsExtraColor(t *testing.T) {
	m := New(80, 24)
	m.StartEdit(model.Todo{ID: "t4", Text: "x", Color: "pink"})
	m.StartCreate()

	assert.Empty(t, m.extraColor)
	assert.Empty(t, m.State().Color)
}

func TestValidateText(t *testing.T) {
	assert.Error(t, validateText("  "))
	assert.NoError(t, validateText("x"))
}
