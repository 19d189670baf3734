package catalog

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/contrato-facil/internal/models"
)

func TestLoad_Templates(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	templates := c.Templates()
	require.Len(t, templates, 3)

	ids := make([]string, 0, len(templates))
	for _, tpl := range templates {
		ids = append(ids, tpl.ID)
		assert.NotEmpty(t, tpl.Name)
		assert.NotEmpty(t, tpl.RawMarkup)
		assert.Contains(t, tpl.RawMarkup, "{{data_atual}}")
	}
	assert.Equal(t, []string{"servicos", "aluguel", "compra_venda"}, ids)

	counts := map[string]int{"servicos": 14, "aluguel": 13, "compra_venda": 10}
	for id, want := range counts {
		tpl, err := c.Template(id)
		require.NoError(t, err)
		assert.Len(t, tpl.Fields, want, id)
	}
}

func TestLoad_EveryTokenIsDeclared(t *testing.T) {
	c := MustLoad()
	token := regexp.MustCompile(`\{\{(\w+)\}\}`)

	for _, tpl := range c.Templates() {
		declared := map[string]bool{"data_atual": true}
		for _, f := range tpl.Fields {
			declared[f.Key] = true
		}
		for _, m := range token.FindAllStringSubmatch(tpl.RawMarkup, -1) {
			assert.Truef(t, declared[m[1]], "template %s uses undeclared token %s", tpl.ID, m[1])
		}
	}
}

func TestCompraVendaFields(t *testing.T) {
	c := MustLoad()
	tpl, err := c.Template("compra_venda")
	require.NoError(t, err)

	assert.Equal(t, "Compra e Venda de Bem Móvel", tpl.Name)
	assert.Equal(t, models.FieldSpec{
		Key:   "descricao_bem",
		Label: "Descrição do Bem (Marca, Modelo, Nº Série)",
		Type:  models.FieldTextarea,
	}, tpl.Fields[6])
	assert.Equal(t, models.FieldCurrency, tpl.Fields[7].Type)
	assert.Equal(t, models.FieldDate, tpl.Fields[9].Type)
}

func TestTemplate_NotFound(t *testing.T) {
	c := MustLoad()
	_, err := c.Template("nda")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPlans(t *testing.T) {
	c := MustLoad()

	tests := []struct {
		id    models.PlanType
		name  string
		limit int
		price int
		paid  bool
	}{
		{id: models.PlanFree, name: "Gratuito", limit: 3, price: 0},
		{id: models.PlanPremium, name: "Premium", limit: 15, price: 2000, paid: true},
		{id: models.PlanGold, name: "Gold", limit: 40, price: 5000, paid: true},
	}
	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			p, err := c.Plan(tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.name, p.Name)
			assert.Equal(t, tt.limit, p.Limit)
			assert.Equal(t, tt.price, p.Price)
			assert.Equal(t, tt.paid, p.Paid())
			assert.NotEmpty(t, p.Features)
		})
	}

	gold, _ := c.Plan(models.PlanGold)
	assert.Contains(t, gold.Features, "Sem marca d'água")

	_, err := c.Plan("platinum")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBlog(t *testing.T) {
	c := MustLoad()

	posts := c.BlogPosts()
	require.Len(t, posts, 3)
	for _, p := range posts {
		assert.Empty(t, p.Content, "listing must not carry the article body")
	}

	post, err := c.BlogPost("dicas-freelancers")
	require.NoError(t, err)
	assert.Equal(t, "Carlos Silva", post.Author)
	assert.Contains(t, post.Content, `<h3 class="text-xl font-bold mb-2 text-slate-800">1. Defina o Escopo com Precisão</h3>`)

	_, err = c.BlogPost("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTemplates_ReturnsCopy(t *testing.T) {
	c := MustLoad()
	list := c.Templates()
	list[0].Name = "changed"

	again, err := c.Template(list[0].ID)
	require.NoError(t, err)
	assert.NotEqual(t, "changed", again.Name)
}
