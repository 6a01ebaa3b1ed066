// Package ubl construye la representación UBL 2.1 sin firma de una factura.
// Solo aplica a regímenes con resolución DIAN; la cuenta de cobro simple no
// lleva XML.
package ubl

import (
	"fmt"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/cotizador-api/internal/application/billing"
	"github.com/jhoicas/cotizador-api/internal/domain/entity"
)

// Namespaces oficiales UBL 2.1.
const (
	nsInvoice = "urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"
	nsCac     = "urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
	nsCbc     = "urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"
)

var _ billing.XMLBuilder = (*InvoiceXMLBuilder)(nil)

// InvoiceXMLBuilder genera el documento Invoice UBL a partir de la factura emitida.
type InvoiceXMLBuilder struct {
	supplierName string
	supplierNIT  string
}

// NewInvoiceXMLBuilder construye el builder con los datos del emisor.
func NewInvoiceXMLBuilder(supplierName, supplierNIT string) *InvoiceXMLBuilder {
	return &InvoiceXMLBuilder{supplierName: supplierName, supplierNIT: supplierNIT}
}

// BuildInvoiceXML genera el XML UBL sin firma de la factura.
func (b *InvoiceXMLBuilder) BuildInvoiceXML(invoice *entity.Invoice) (string, error) {
	if invoice == nil {
		return "", fmt.Errorf("ubl: factura nil")
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("Invoice")
	root.CreateAttr("xmlns", nsInvoice)
	root.CreateAttr("xmlns:cac", nsCac)
	root.CreateAttr("xmlns:cbc", nsCbc)

	root.CreateElement("cbc:UBLVersionID").SetText("2.1")
	root.CreateElement("cbc:ProfileID").SetText("DIAN 2.1: Factura Electrónica de Venta")
	root.CreateElement("cbc:ID").SetText(invoice.Number)
	root.CreateElement("cbc:IssueDate").SetText(invoice.IssuedAt.Format("2006-01-02"))
	root.CreateElement("cbc:IssueTime").SetText(invoice.IssuedAt.Format("15:04:05-07:00"))
	root.CreateElement("cbc:DocumentCurrencyCode").SetText(invoice.Currency)
	if invoice.Resolution != "" {
		note := root.CreateElement("cbc:Note")
		note.SetText("Resolución DIAN " + invoice.Resolution)
	}

	supplier := root.CreateElement("cac:AccountingSupplierParty").CreateElement("cac:Party")
	supplier.CreateElement("cac:PartyName").CreateElement("cbc:Name").SetText(b.supplierName)
	supplierID := supplier.CreateElement("cac:PartyIdentification").CreateElement("cbc:ID")
	supplierID.CreateAttr("schemeName", "31") // NIT
	supplierID.SetText(b.supplierNIT)

	customer := root.CreateElement("cac:AccountingCustomerParty").CreateElement("cac:Party")
	customer.CreateElement("cac:PartyName").CreateElement("cbc:Name").SetText(invoice.ClientName)
	writeCustomerID(customer, invoice)
	contact := customer.CreateElement("cac:Contact")
	contact.CreateElement("cbc:ElectronicMail").SetText(invoice.ClientEmail)

	// Totales: IVA como impuesto, retefuente como retención informada.
	taxTotal := root.CreateElement("cac:TaxTotal")
	writeAmount(taxTotal, "cbc:TaxAmount", invoice.IVACents, invoice.Currency)
	if invoice.ReteFuenteCents != 0 {
		withholding := root.CreateElement("cac:WithholdingTaxTotal")
		writeAmount(withholding, "cbc:TaxAmount", invoice.ReteFuenteCents, invoice.Currency)
	}

	totals := root.CreateElement("cac:LegalMonetaryTotal")
	writeAmount(totals, "cbc:LineExtensionAmount", invoice.SubtotalCents, invoice.Currency)
	writeAmount(totals, "cbc:TaxExclusiveAmount", invoice.SubtotalCents, invoice.Currency)
	writeAmount(totals, "cbc:TaxInclusiveAmount", invoice.SubtotalCents+invoice.IVACents, invoice.Currency)
	writeAmount(totals, "cbc:PayableAmount", invoice.TotalCents, invoice.Currency)

	line := root.CreateElement("cac:InvoiceLine")
	line.CreateElement("cbc:ID").SetText("1")
	qty := line.CreateElement("cbc:InvoicedQuantity")
	qty.CreateAttr("unitCode", "EA")
	qty.SetText("1")
	writeAmount(line, "cbc:LineExtensionAmount", invoice.SubtotalCents, invoice.Currency)
	item := line.CreateElement("cac:Item")
	item.CreateElement("cbc:Description").SetText(invoice.ServiceName)

	doc.Indent(2)
	return doc.WriteToString()
}

// writeCustomerID escribe la identificación del cliente según el documento disponible:
// NIT (schemeName 31) cuando existe, cédula (13) en su defecto.
func writeCustomerID(party *etree.Element, invoice *entity.Invoice) {
	id := party.CreateElement("cac:PartyIdentification").CreateElement("cbc:ID")
	switch {
	case invoice.ClientNIT != "":
		id.CreateAttr("schemeName", "31")
		id.SetText(invoice.ClientNIT)
	case invoice.ClientCedula != "":
		id.CreateAttr("schemeName", "13")
		id.SetText(invoice.ClientCedula)
	}
}

// writeAmount escribe un monto en pesos con dos decimales, desde centavos.
func writeAmount(parent *etree.Element, tag string, amountCents int64, currency string) {
	el := parent.CreateElement(tag)
	el.CreateAttr("currencyID", currency)
	pesos := decimal.NewFromInt(amountCents).Div(decimal.NewFromInt(100))
	el.SetText(pesos.StringFixed(2))
}
