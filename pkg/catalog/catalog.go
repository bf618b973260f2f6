// Package catalog provides the read-only registry of workflow categories and definitions.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dukex/leadflow/pkg/models"
	"github.com/go-playground/validator/v10"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

//go:embed catalog.schema.json
var catalogSchema string

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrWorkflowNotFound = errors.New("workflow not found")
	ErrInvalidCatalog   = errors.New("invalid catalog")
)

// Catalog is an immutable lookup over categories and workflows. It is safe for
// concurrent use since nothing mutates it after Load returns.
type Catalog struct {
	categories       []*models.WorkflowCategory
	categoriesByID   map[string]*models.WorkflowCategory
	workflowsByID    map[string]*models.Workflow
	workflowCategory map[string]string
}

type document struct {
	Categories []*models.WorkflowCategory `yaml:"categories" validate:"dive"`
}

// Default returns the catalog embedded in the binary.
func Default() (*Catalog, error) {
	return Load(bytes.NewReader(defaultCatalog))
}

// MustDefault is Default for process start-up, where a broken embedded dataset is a build defect.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(fmt.Errorf("embedded catalog: %w", err))
	}

	return c
}

// Load reads a YAML catalog, checks it against the catalog schema and the
// model constraints, and builds the lookup indexes.
func Load(r io.Reader) (*Catalog, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	var generic any
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	if err := validateSchema(generic); err != nil {
		return nil, err
	}

	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	return build(doc.Categories)
}

func validateSchema(data any) error {
	schemaLoader := gojsonschema.NewStringLoader(catalogSchema)
	dataLoader := gojsonschema.NewGoLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, dataLoader)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	if !result.Valid() {
		var problems []string
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}

		return fmt.Errorf("%w: %s", ErrInvalidCatalog, strings.Join(problems, "; "))
	}

	return nil
}

func build(categories []*models.WorkflowCategory) (*Catalog, error) {
	c := &Catalog{
		categories:       categories,
		categoriesByID:   make(map[string]*models.WorkflowCategory, len(categories)),
		workflowsByID:    make(map[string]*models.Workflow),
		workflowCategory: make(map[string]string),
	}

	for _, category := range categories {
		if _, exists := c.categoriesByID[category.ID]; exists {
			return nil, fmt.Errorf("%w: duplicate category id %q", ErrInvalidCatalog, category.ID)
		}

		c.categoriesByID[category.ID] = category

		if category.Workflows == nil {
			category.Workflows = []*models.Workflow{}
		}

		for _, wf := range category.Workflows {
			if err := checkWorkflow(wf); err != nil {
				return nil, err
			}

			if _, exists := c.workflowsByID[wf.ID]; exists {
				return nil, fmt.Errorf("%w: duplicate workflow id %q", ErrInvalidCatalog, wf.ID)
			}

			c.workflowsByID[wf.ID] = wf
			c.workflowCategory[wf.ID] = category.ID
		}
	}

	return c, nil
}

func checkWorkflow(wf *models.Workflow) error {
	if wf.Status == models.WorkflowStatusComingSoon && wf.Endpoint != "" {
		return fmt.Errorf("%w: workflow %q is coming soon but declares endpoint %q", ErrInvalidCatalog, wf.ID, wf.Endpoint)
	}

	if wf.Fields == nil {
		wf.Fields = []*models.WorkflowField{}
	}

	seen := make(map[string]struct{}, len(wf.Fields))

	for _, field := range wf.Fields {
		if _, dup := seen[field.ID]; dup {
			return fmt.Errorf("%w: workflow %q has duplicate field id %q", ErrInvalidCatalog, wf.ID, field.ID)
		}

		seen[field.ID] = struct{}{}

		if len(field.Options) > 0 && field.Type != models.FieldTypeSelect {
			return fmt.Errorf("%w: field %q of workflow %q has options but is not a select", ErrInvalidCatalog, field.ID, wf.ID)
		}
	}

	return nil
}

// Categories returns all categories in display order.
func (c *Catalog) Categories() []*models.WorkflowCategory {
	return c.categories
}

// Category returns the category with the given id.
func (c *Catalog) Category(id string) (*models.WorkflowCategory, error) {
	category, ok := c.categoriesByID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCategoryNotFound, id)
	}

	return category, nil
}

// Workflows returns the workflows of a category in display order.
func (c *Catalog) Workflows(categoryID string) ([]*models.Workflow, error) {
	category, err := c.Category(categoryID)
	if err != nil {
		return nil, err
	}

	return category.Workflows, nil
}

// Workflow returns the workflow with the given id.
func (c *Catalog) Workflow(id string) (*models.Workflow, error) {
	wf, ok := c.workflowsByID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrWorkflowNotFound, id)
	}

	return wf, nil
}

// CategoryOf returns the id of the category a workflow belongs to.
func (c *Catalog) CategoryOf(workflowID string) (string, bool) {
	id, ok := c.workflowCategory[workflowID]

	return id, ok
}

// Len returns the number of workflows in the catalog.
func (c *Catalog) Len() int {
	return len(c.workflowsByID)
}
