package catalog

import (
	"strings"
	"testing"

	"github.com/dukex/leadflow/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Categories(t *testing.T) {
	t.Parallel()

	c, err := Default()
	require.NoError(t, err)

	categories := c.Categories()
	require.Len(t, categories, 3)
	assert.Equal(t, "lead-generation", categories[0].ID)
	assert.Equal(t, "data-management", categories[1].ID)
	assert.Equal(t, "communication", categories[2].ID)
	assert.Empty(t, categories[1].Workflows)
	assert.NotNil(t, categories[1].Workflows)
	assert.Equal(t, 4, c.Len())

	workflows, err := c.Workflows("lead-generation")
	require.NoError(t, err)

	ids := make([]string, 0, len(workflows))
	for _, wf := range workflows {
		ids = append(ids, wf.ID)
	}

	assert.Equal(t, []string{"apollo-scraping", "google-maps", "email-validation", "campaign-deploy"}, ids)
}

func TestDefault_ApolloWorkflow(t *testing.T) {
	t.Parallel()

	c := MustDefault()

	wf, err := c.Workflow("apollo-scraping")
	require.NoError(t, err)

	assert.Equal(t, "/startApolloScrape", wf.Endpoint)
	assert.Equal(t, models.IconSearch, wf.Icon)
	assert.Equal(t, models.WorkflowStatusReady, wf.Status)
	require.Len(t, wf.Fields, 3)
	assert.Equal(t, "apolloUrl", wf.Fields[0].ID)
	assert.Equal(t, models.FieldTypeURL, wf.Fields[0].Type)
	assert.True(t, wf.Fields[0].Required)
	assert.Equal(t, models.FieldTypeToggle, wf.Fields[2].Type)
	assert.False(t, wf.Fields[2].Required)

	category, ok := c.CategoryOf("apollo-scraping")
	require.True(t, ok)
	assert.Equal(t, "lead-generation", category)
}

func TestDefault_ComingSoonHasNoEndpoint(t *testing.T) {
	t.Parallel()

	c := MustDefault()

	for _, category := range c.Categories() {
		for _, wf := range category.Workflows {
			if wf.Status == models.WorkflowStatusComingSoon {
				assert.Empty(t, wf.Endpoint, wf.ID)
				assert.False(t, wf.Submittable(), wf.ID)
			} else {
				assert.True(t, wf.Submittable(), wf.ID)
			}
		}
	}

	wf, err := c.Workflow("campaign-deploy")
	require.NoError(t, err)
	assert.Empty(t, wf.Fields)
}

func TestLookups_NotFound(t *testing.T) {
	t.Parallel()

	c := MustDefault()

	_, err := c.Workflow("nope")
	require.ErrorIs(t, err, ErrWorkflowNotFound)

	_, err = c.Category("nope")
	require.ErrorIs(t, err, ErrCategoryNotFound)

	_, err = c.Workflows("nope")
	require.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestLoad_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		catalog string
		errText string
	}{
		{
			name: "coming soon with endpoint",
			catalog: `
categories:
  - id: c
    name: C
    workflows:
      - id: w
        name: W
        status: coming-soon
        endpoint: /x
`,
		},
		{
			name: "unknown field type",
			catalog: `
categories:
  - id: c
    name: C
    workflows:
      - id: w
        name: W
        status: ready
        endpoint: /x
        fields:
          - id: f
            label: F
            type: date
`,
		},
		{
			name: "duplicate workflow id",
			catalog: `
categories:
  - id: a
    name: A
    workflows:
      - id: w
        name: W
        status: ready
        endpoint: /x
  - id: b
    name: B
    workflows:
      - id: w
        name: W2
        status: ready
        endpoint: /y
`,
			errText: "duplicate workflow id",
		},
		{
			name: "duplicate field id",
			catalog: `
categories:
  - id: c
    name: C
    workflows:
      - id: w
        name: W
        status: ready
        endpoint: /x
        fields:
          - id: f
            label: F
            type: text
          - id: f
            label: F2
            type: text
`,
			errText: "duplicate field id",
		},
		{
			name: "options on text field",
			catalog: `
categories:
  - id: c
    name: C
    workflows:
      - id: w
        name: W
        status: ready
        endpoint: /x
        fields:
          - id: f
            label: F
            type: text
            options: [a, b]
`,
			errText: "not a select",
		},
		{
			name: "endpoint without leading slash",
			catalog: `
categories:
  - id: c
    name: C
    workflows:
      - id: w
        name: W
        status: ready
        endpoint: leadmagic
`,
		},
		{
			name:    "not yaml",
			catalog: "categories: [",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Load(strings.NewReader(tt.catalog))
			require.ErrorIs(t, err, ErrInvalidCatalog)

			if tt.errText != "" {
				assert.Contains(t, err.Error(), tt.errText)
			}
		})
	}
}

func TestLoad_SelectOptions(t *testing.T) {
	t.Parallel()

	c, err := Load(strings.NewReader(`
categories:
  - id: c
    name: C
    icon: Rocket
    workflows:
      - id: w
        name: W
        status: needs-setup
        endpoint: /x
        fields:
          - id: region
            label: Region
            type: select
            options: [us, eu]
`))
	require.NoError(t, err)

	category, err := c.Category("c")
	require.NoError(t, err)
	assert.False(t, category.Icon.Known())

	wf, err := c.Workflow("w")
	require.NoError(t, err)
	assert.Equal(t, []string{"us", "eu"}, wf.Fields[0].Options)
}
