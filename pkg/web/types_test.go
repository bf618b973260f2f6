package web_test

import (
	"testing"

	"github.com/dukex/leadflow/pkg/catalog"
	"github.com/dukex/leadflow/pkg/web"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenPanelRequest_Validation(t *testing.T) {
	t.Parallel()

	v := validator.New()

	require.NoError(t, v.Struct(web.OpenPanelRequest{WorkflowID: "apollo-scraping"}))

	err := v.Struct(web.OpenPanelRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WorkflowID")
}

func TestTransformCategoryResponse(t *testing.T) {
	t.Parallel()

	category, err := catalog.MustDefault().Category("lead-generation")
	require.NoError(t, err)

	resp := web.TransformCategoryResponse(category)

	assert.Equal(t, "List Building & Campaign Launch", resp.Name)
	require.Len(t, resp.Workflows, 4)
	assert.Equal(t, resp.WorkflowCount, len(resp.Workflows))
	assert.Equal(t, "Coming Soon", resp.Workflows[3].StatusLabel)
	assert.False(t, resp.Workflows[3].Submittable)
}
