package editor

import "github.com/krktechnologyandservices/GBV/internal/client/models"

// Binding is what an attribute row shows once its identifier is resolved.
type Binding struct {
	Name          string
	ValueType     models.ValueType
	AllowedValues []string
}

// Catalog is the attribute catalog as loaded at editor start. It is never
// reloaded during the editor's lifetime.
type Catalog struct {
	defs []models.AttributeDefinition
	byID map[int64]models.AttributeDefinition
}

func NewCatalog(defs []models.AttributeDefinition) *Catalog {
	c := &Catalog{
		defs: append([]models.AttributeDefinition(nil), defs...),
		byID: make(map[int64]models.AttributeDefinition, len(defs)),
	}
	for _, d := range defs {
		c.byID[d.ID] = d
	}
	return c
}

// Resolve looks up id. An unknown id yields a blank binding of type text.
func (c *Catalog) Resolve(id int64) Binding {
	d, ok := c.byID[id]
	if !ok {
		return Binding{ValueType: models.ValueText}
	}
	return Binding{Name: d.Name, ValueType: d.ValueType, AllowedValues: d.Values()}
}

func (c *Catalog) Lookup(id int64) (models.AttributeDefinition, bool) {
	d, ok := c.byID[id]
	return d, ok
}

func (c *Catalog) Definitions() []models.AttributeDefinition {
	return append([]models.AttributeDefinition(nil), c.defs...)
}
