package purchaseorder

import (
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePurchase() (*entity.Purchase, *entity.Supplier) {
	discount := decimal.NewFromInt(10)
	s := &entity.Supplier{ID: "sup-1", CompanyName: "Hierros & Cía", CIF: "B12345678", Email: "pedidos@hierros.es", Discount: &discount}
	p := &entity.Purchase{
		ID: "pur-1", SupplierID: s.ID, SupplierName: s.CompanyName,
		Date:    time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC),
		Message: "Urgente",
		Items: []entity.PurchaseItem{{
			ProductID: "prod-1", ProductName: "Martillo <grande>", Reference: "REF1",
			Quantity: 4, Price: decimal.RequireFromString("9.00"),
		}},
	}
	p.Total = p.ComputeTotal()
	return p, s
}

func TestBuildPurchaseOrder(t *testing.T) {
	p, s := samplePurchase()
	doc, err := NewXMLBuilder().BuildPurchaseOrder(p, s)
	require.NoError(t, err)
	assert.Len(t, doc.Digest, 44)

	parsed := etree.NewDocument()
	require.NoError(t, parsed.ReadFromBytes(doc.XML))
	root := parsed.Root()
	require.NotNil(t, root)
	assert.Equal(t, "PurchaseOrder", root.Tag)
	assert.Equal(t, "pur-1", root.SelectAttrValue("id", ""))
	assert.Equal(t, "2026-03-01T10:30:00Z", root.FindElement("./IssueDate").Text())
	assert.Equal(t, "Hierros & Cía", root.FindElement("./Supplier/Name").Text())
	assert.Equal(t, "10.00", root.FindElement("./Supplier/Discount").Text())
	assert.Equal(t, "Martillo <grande>", root.FindElement("./Lines/Line/Description").Text())
	assert.Equal(t, "36.00", root.FindElement("./Lines/Line/LineTotal").Text())
	assert.Equal(t, "EUR", root.FindElement("./Total").SelectAttrValue("currency", ""))
	assert.Equal(t, "36.00", root.FindElement("./Total").Text())
	assert.Equal(t, "Urgente", root.FindElement("./Note").Text())
}

func TestBuildPurchaseOrder_DigestIsStable(t *testing.T) {
	p, s := samplePurchase()
	a, err := NewXMLBuilder().BuildPurchaseOrder(p, s)
	require.NoError(t, err)
	b, err := NewXMLBuilder().BuildPurchaseOrder(p, s)
	require.NoError(t, err)
	assert.Equal(t, a.Digest, b.Digest)

	p.Items[0].Quantity = 5
	p.Total = p.ComputeTotal()
	c, err := NewXMLBuilder().BuildPurchaseOrder(p, s)
	require.NoError(t, err)
	assert.NotEqual(t, a.Digest, c.Digest)
}
