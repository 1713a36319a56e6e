package kvfile

import (
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/shineway/pos-server/internal/domain/menu"
	"github.com/shineway/pos-server/internal/domain/order"
	"github.com/shineway/pos-server/internal/domain/payment"
	"github.com/shineway/pos-server/internal/domain/table"
)

// Documents carry timestamps as RFC 3339 strings and money as plain JSON
// numbers, matching what the original persisted.

func encodeTime(e *jx.Encoder, t time.Time) {
	e.Str(t.Format(time.RFC3339Nano))
}

func decodeTime(d *jx.Decoder) (time.Time, error) {
	s, err := d.Str()
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, errors.Wrap(err, "parse timestamp")
	}
	return t, nil
}

func encodeDecimal(e *jx.Encoder, d decimal.Decimal) {
	e.Num(jx.Num(d.String()))
}

func decodeDecimal(d *jx.Decoder) (decimal.Decimal, error) {
	raw, err := d.Raw()
	if err != nil {
		return decimal.Decimal{}, err
	}
	var v decimal.Decimal
	if err := v.UnmarshalJSON(raw); err != nil {
		return decimal.Decimal{}, errors.Wrap(err, "parse amount")
	}
	return v, nil
}

func encodeTables(tables []table.Table) []byte {
	var e jx.Encoder
	e.Arr(func(e *jx.Encoder) {
		for _, t := range tables {
			t := t
			e.Obj(func(e *jx.Encoder) {
				e.Field("id", func(e *jx.Encoder) { e.Str(t.ID) })
				e.Field("number", func(e *jx.Encoder) { e.Str(t.Number) })
				e.Field("status", func(e *jx.Encoder) { e.Str(string(t.Status)) })
				e.Field("floor", func(e *jx.Encoder) { e.Int(t.Floor) })
			})
		}
	})
	return e.Bytes()
}

func decodeTables(data []byte) ([]table.Table, error) {
	d := jx.DecodeBytes(data)
	tables := make([]table.Table, 0)
	err := d.Arr(func(d *jx.Decoder) error {
		var t table.Table
		if err := d.Obj(func(d *jx.Decoder, key string) error {
			var err error
			switch key {
			case "id":
				t.ID, err = d.Str()
			case "number":
				t.Number, err = d.Str()
			case "status":
				var s string
				if s, err = d.Str(); err == nil {
					t.Status, err = table.ParseStatus(s)
				}
			case "floor":
				t.Floor, err = d.Int()
			default:
				err = d.Skip()
			}
			return err
		}); err != nil {
			return err
		}
		tables = append(tables, t)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "decode tables")
	}
	return tables, nil
}

func encodeMenuItem(e *jx.Encoder, item menu.Item) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Str(item.ID) })
		e.Field("name", func(e *jx.Encoder) { e.Str(item.Name) })
		e.Field("price", func(e *jx.Encoder) { encodeDecimal(e, item.Price) })
		e.Field("image", func(e *jx.Encoder) { e.Str(item.Image) })
		e.Field("category", func(e *jx.Encoder) { e.Str(item.Category) })
		e.Field("description", func(e *jx.Encoder) { e.Str(item.Description) })
	})
}

func decodeMenuItem(d *jx.Decoder) (menu.Item, error) {
	var item menu.Item
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "id":
			item.ID, err = d.Str()
		case "name":
			item.Name, err = d.Str()
		case "price":
			item.Price, err = decodeDecimal(d)
		case "image":
			item.Image, err = d.Str()
		case "category":
			item.Category, err = d.Str()
		case "description":
			item.Description, err = d.Str()
		default:
			err = d.Skip()
		}
		return err
	})
	return item, err
}

func encodeLineItem(e *jx.Encoder, li order.LineItem) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("menuItem", func(e *jx.Encoder) { encodeMenuItem(e, li.MenuItem) })
		e.Field("quantity", func(e *jx.Encoder) { e.Int(li.Quantity) })
		e.Field("notes", func(e *jx.Encoder) { e.Str(li.Notes) })
	})
}

func decodeLineItem(d *jx.Decoder) (order.LineItem, error) {
	var li order.LineItem
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "menuItem":
			li.MenuItem, err = decodeMenuItem(d)
		case "quantity":
			li.Quantity, err = d.Int()
		case "notes":
			li.Notes, err = d.Str()
		default:
			err = d.Skip()
		}
		return err
	})
	return li, err
}

func encodeOrders(orders []order.Order) []byte {
	var e jx.Encoder
	e.Arr(func(e *jx.Encoder) {
		for _, o := range orders {
			o := o
			e.Obj(func(e *jx.Encoder) {
				e.Field("id", func(e *jx.Encoder) { e.Str(o.ID) })
				e.Field("orderNumber", func(e *jx.Encoder) { e.Str(o.OrderNumber) })
				e.Field("tableId", func(e *jx.Encoder) { e.Str(o.TableID) })
				e.Field("tableName", func(e *jx.Encoder) { e.Str(o.TableName) })
				e.Field("floor", func(e *jx.Encoder) { e.Int(o.Floor) })
				e.Field("items", func(e *jx.Encoder) {
					e.Arr(func(e *jx.Encoder) {
						for _, li := range o.Items {
							encodeLineItem(e, li)
						}
					})
				})
				e.Field("status", func(e *jx.Encoder) { e.Str(string(o.Status)) })
				e.Field("paymentStatus", func(e *jx.Encoder) { e.Str(string(o.PaymentStatus)) })
				e.Field("createdAt", func(e *jx.Encoder) { encodeTime(e, o.CreatedAt) })
				e.Field("updatedAt", func(e *jx.Encoder) { encodeTime(e, o.UpdatedAt) })
				e.Field("total", func(e *jx.Encoder) { encodeDecimal(e, o.Total) })
				e.Field("discount", func(e *jx.Encoder) { encodeDecimal(e, o.Discount) })
				e.Field("discountCode", func(e *jx.Encoder) { e.Str(o.DiscountCode) })
				e.Field("finalTotal", func(e *jx.Encoder) { encodeDecimal(e, o.FinalTotal) })
				e.Field("paymentMethod", func(e *jx.Encoder) { e.Str(o.PaymentMethod) })
				e.Field("staffName", func(e *jx.Encoder) { e.Str(o.StaffName) })
				e.Field("customerName", func(e *jx.Encoder) { e.Str(o.CustomerName) })
				e.Field("notes", func(e *jx.Encoder) { e.Str(o.Notes) })
			})
		}
	})
	return e.Bytes()
}

func decodeOrders(data []byte) ([]order.Order, error) {
	d := jx.DecodeBytes(data)
	orders := make([]order.Order, 0)
	err := d.Arr(func(d *jx.Decoder) error {
		var o order.Order
		if err := d.Obj(func(d *jx.Decoder, key string) error {
			var err error
			switch key {
			case "id":
				o.ID, err = d.Str()
			case "orderNumber":
				o.OrderNumber, err = d.Str()
			case "tableId":
				o.TableID, err = d.Str()
			case "tableName":
				o.TableName, err = d.Str()
			case "floor":
				o.Floor, err = d.Int()
			case "items":
				err = d.Arr(func(d *jx.Decoder) error {
					li, err := decodeLineItem(d)
					if err != nil {
						return err
					}
					o.Items = append(o.Items, li)
					return nil
				})
			case "status":
				var s string
				if s, err = d.Str(); err == nil {
					o.Status, err = order.ParseStatus(s)
				}
			case "paymentStatus":
				var s string
				if s, err = d.Str(); err == nil {
					o.PaymentStatus, err = order.ParsePaymentStatus(s)
				}
			case "createdAt":
				o.CreatedAt, err = decodeTime(d)
			case "updatedAt":
				o.UpdatedAt, err = decodeTime(d)
			case "total":
				o.Total, err = decodeDecimal(d)
			case "discount":
				o.Discount, err = decodeDecimal(d)
			case "discountCode":
				o.DiscountCode, err = d.Str()
			case "finalTotal":
				o.FinalTotal, err = decodeDecimal(d)
			case "paymentMethod":
				o.PaymentMethod, err = d.Str()
			case "staffName":
				o.StaffName, err = d.Str()
			case "customerName":
				o.CustomerName, err = d.Str()
			case "notes":
				o.Notes, err = d.Str()
			default:
				err = d.Skip()
			}
			return err
		}); err != nil {
			return err
		}
		orders = append(orders, o)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "decode orders")
	}
	return orders, nil
}

func encodePayments(payments []payment.Payment) []byte {
	var e jx.Encoder
	e.Arr(func(e *jx.Encoder) {
		for _, p := range payments {
			p := p
			e.Obj(func(e *jx.Encoder) {
				e.Field("id", func(e *jx.Encoder) { e.Str(p.ID) })
				e.Field("orderId", func(e *jx.Encoder) { e.Str(p.OrderID) })
				e.Field("amount", func(e *jx.Encoder) { encodeDecimal(e, p.Amount) })
				e.Field("method", func(e *jx.Encoder) { e.Str(string(p.Method)) })
				e.Field("status", func(e *jx.Encoder) { e.Str(p.Status) })
				e.Field("transactionId", func(e *jx.Encoder) { e.Str(p.TransactionID) })
				e.Field("createdAt", func(e *jx.Encoder) { encodeTime(e, p.CreatedAt) })
			})
		}
	})
	return e.Bytes()
}

func decodePayments(data []byte) ([]payment.Payment, error) {
	d := jx.DecodeBytes(data)
	payments := make([]payment.Payment, 0)
	err := d.Arr(func(d *jx.Decoder) error {
		var p payment.Payment
		if err := d.Obj(func(d *jx.Decoder, key string) error {
			var err error
			switch key {
			case "id":
				p.ID, err = d.Str()
			case "orderId":
				p.OrderID, err = d.Str()
			case "amount":
				p.Amount, err = decodeDecimal(d)
			case "method":
				var s string
				if s, err = d.Str(); err == nil {
					p.Method, err = payment.ParseMethod(s)
				}
			case "status":
				p.Status, err = d.Str()
			case "transactionId":
				p.TransactionID, err = d.Str()
			case "createdAt":
				p.CreatedAt, err = decodeTime(d)
			default:
				err = d.Skip()
			}
			return err
		}); err != nil {
			return err
		}
		payments = append(payments, p)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "decode payments")
	}
	return payments, nil
}
