// Package purchaseorder genera el documento XML de un pedido a proveedor.
// El digest se calcula sobre la forma canónica (C14N) del elemento raíz, sin la declaración XML.
package purchaseorder

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/beevik/etree"
	"github.com/jhoicas/Suministros-api/internal/application/dto"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/ucarion/c14n"
)

const (
	Namespace = "urn:suministros:purchase-order:1"
	Currency  = "EUR"
	dateTime  = "2006-01-02T15:04:05Z"
)

// XMLBuilder implementa purchasing.PurchaseOrderBuilder con etree + c14n.
type XMLBuilder struct{}

// NewXMLBuilder construye el generador.
func NewXMLBuilder() *XMLBuilder { return &XMLBuilder{} }

// BuildPurchaseOrder genera el XML indentado del pedido y su digest SHA-256 (base64).
func (b *XMLBuilder) BuildPurchaseOrder(p *entity.Purchase, s *entity.Supplier) (*dto.PurchaseOrderDocument, error) {
	if p == nil {
		return nil, fmt.Errorf("purchaseorder: pedido nil")
	}
	root := buildRoot(p, s)

	canonical, err := canonicalize(root)
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(canonical)

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	doc.SetRoot(root)
	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("purchaseorder: serializar: %w", err)
	}
	return &dto.PurchaseOrderDocument{
		XML:    out,
		Digest: base64.StdEncoding.EncodeToString(sum[:]),
	}, nil
}

func buildRoot(p *entity.Purchase, s *entity.Supplier) *etree.Element {
	root := etree.NewElement("PurchaseOrder")
	root.CreateAttr("xmlns", Namespace)
	root.CreateAttr("id", p.ID)
	root.CreateElement("IssueDate").SetText(p.Date.UTC().Format(dateTime))

	sup := root.CreateElement("Supplier")
	sup.CreateAttr("id", p.SupplierID)
	name := p.SupplierName
	if s != nil {
		name = s.CompanyName
		sup.CreateElement("CIF").SetText(s.CIF)
		if s.Email != "" {
			sup.CreateElement("Email").SetText(s.Email)
		}
		if s.Discount != nil {
			sup.CreateElement("Discount").SetText(s.Discount.StringFixed(2))
		}
	}
	sup.CreateElement("Name").SetText(name)

	lines := root.CreateElement("Lines")
	for i, it := range p.Items {
		line := lines.CreateElement("Line")
		line.CreateAttr("number", strconv.Itoa(i+1))
		line.CreateElement("ProductID").SetText(it.ProductID)
		if it.Reference != "" {
			line.CreateElement("Reference").SetText(it.Reference)
		}
		line.CreateElement("Description").SetText(it.ProductName)
		line.CreateElement("Quantity").SetText(strconv.Itoa(it.Quantity))
		amount(line, "UnitPrice", it.Price.StringFixed(2))
		amount(line, "LineTotal", it.Subtotal().StringFixed(2))
	}
	amount(root, "Total", p.Total.StringFixed(2))
	if p.Message != "" {
		root.CreateElement("Note").SetText(p.Message)
	}
	return root
}

func amount(parent *etree.Element, tag, value string) {
	el := parent.CreateElement(tag)
	el.CreateAttr("currency", Currency)
	el.SetText(value)
}

// canonicalize serializa una copia del elemento y la pasa por C14N.
func canonicalize(root *etree.Element) ([]byte, error) {
	tmp := etree.NewDocument()
	tmp.SetRoot(root.Copy())
	raw, err := tmp.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("purchaseorder: serializar raíz: %w", err)
	}
	dec := xml.NewDecoder(bytes.NewReader(raw))
	dec.Entity = map[string]string{}
	out, err := c14n.Canonicalize(dec)
	if err != nil {
		return nil, fmt.Errorf("purchaseorder: canonicalizar: %w", err)
	}
	return out, nil
}
