// Package catalog загружает встроенный каталог: шаблоны договоров, тарифы и статьи блога.
// Каталог разбирается один раз при старте и дальше только читается.
package catalog

import (
	"bytes"
	"embed"
	"errors"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"gopkg.in/yaml.v3"

	"github.com/magabrotheeeer/contrato-facil/internal/models"
)

//go:embed data/*.yaml
var dataFS embed.FS

// ErrNotFound запрошенного элемента нет в каталоге.
var ErrNotFound = errors.New("not found in catalog")

// Catalog неизменяемый набор шаблонов, тарифов и статей.
type Catalog struct {
	templates []models.Template
	plans     []models.Plan
	posts     []models.BlogPost

	templateByID map[string]int
	planByID     map[models.PlanType]int
	postByID     map[string]int
}

// Load читает встроенные YAML-файлы.
func Load() (*Catalog, error) {
	const op = "catalog.Load"

	c := &Catalog{}
	if err := decodeFile("data/templates.yaml", &c.templates); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := decodeFile("data/plans.yaml", &c.plans); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := decodeFile("data/blog.yaml", &c.posts); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := c.index(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").Globally()
	for i := range c.posts {
		c.posts[i].Content = policy.Sanitize(c.posts[i].Content)
	}
	return c, nil
}

// MustLoad как Load, но паникует при ошибке. Каталог встроен в бинарник, поэтому ошибка
// означает испорченную сборку.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

func decodeFile(name string, out any) error {
	raw, err := dataFS.ReadFile(name)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

func (c *Catalog) index() error {
	c.templateByID = make(map[string]int, len(c.templates))
	for i, t := range c.templates {
		if _, dup := c.templateByID[t.ID]; dup {
			return fmt.Errorf("duplicate template %q", t.ID)
		}
		if err := checkFields(t); err != nil {
			return err
		}
		c.templateByID[t.ID] = i
	}

	c.planByID = make(map[models.PlanType]int, len(c.plans))
	for i, p := range c.plans {
		if !p.ID.Valid() {
			return fmt.Errorf("unknown plan %q", p.ID)
		}
		if p.Limit <= 0 {
			return fmt.Errorf("plan %q: limit must be positive", p.ID)
		}
		c.planByID[p.ID] = i
	}
	if _, ok := c.planByID[models.PlanFree]; !ok {
		return errors.New("free plan is missing")
	}

	c.postByID = make(map[string]int, len(c.posts))
	for i, p := range c.posts {
		if _, dup := c.postByID[p.ID]; dup {
			return fmt.Errorf("duplicate blog post %q", p.ID)
		}
		c.postByID[p.ID] = i
	}
	return nil
}

func checkFields(t models.Template) error {
	seen := make(map[string]struct{}, len(t.Fields))
	for _, f := range t.Fields {
		if f.Key == "" {
			return fmt.Errorf("template %q: field without key", t.ID)
		}
		if _, dup := seen[f.Key]; dup {
			return fmt.Errorf("template %q: duplicate field %q", t.ID, f.Key)
		}
		switch f.Type {
		case models.FieldText, models.FieldDate, models.FieldNumber, models.FieldCurrency, models.FieldTextarea:
		default:
			return fmt.Errorf("template %q: field %q has unknown type %q", t.ID, f.Key, f.Type)
		}
		seen[f.Key] = struct{}{}
	}
	return nil
}

// Templates возвращает шаблоны в порядке каталога.
func (c *Catalog) Templates() []models.Template {
	out := make([]models.Template, len(c.templates))
	copy(out, c.templates)
	return out
}

// Template возвращает шаблон по идентификатору.
func (c *Catalog) Template(id string) (models.Template, error) {
	i, ok := c.templateByID[id]
	if !ok {
		return models.Template{}, fmt.Errorf("template %q: %w", id, ErrNotFound)
	}
	return c.templates[i], nil
}

// Plans возвращает тарифы в порядке каталога.
func (c *Catalog) Plans() []models.Plan {
	out := make([]models.Plan, len(c.plans))
	copy(out, c.plans)
	return out
}

// Plan возвращает тариф по идентификатору.
func (c *Catalog) Plan(id models.PlanType) (models.Plan, error) {
	i, ok := c.planByID[id]
	if !ok {
		return models.Plan{}, fmt.Errorf("plan %q: %w", id, ErrNotFound)
	}
	return c.plans[i], nil
}

// BlogPosts возвращает статьи без полного текста.
func (c *Catalog) BlogPosts() []models.BlogPost {
	out := make([]models.BlogPost, len(c.posts))
	for i, p := range c.posts {
		p.Content = ""
		out[i] = p
	}
	return out
}

// BlogPost возвращает статью целиком.
func (c *Catalog) BlogPost(id string) (models.BlogPost, error) {
	i, ok := c.postByID[id]
	if !ok {
		return models.BlogPost{}, fmt.Errorf("blog post %q: %w", id, ErrNotFound)
	}
	return c.posts[i], nil
}
