package storefront

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"strconv"

	"github.com/localrivet/storefront/catalog"
	"github.com/localrivet/storefront/protocol"
	"github.com/localrivet/storefront/server"
	"github.com/localrivet/storefront/shop"
	"github.com/localrivet/storefront/util/response"
	"github.com/localrivet/storefront/util/schema"
)

const speciality = "Brand Z Sports store only sells sports equipments or sporting goods that it manufactures"

const noOrderHistory = "There is no order history yet"

const imageToolDescription = "Returns the URL of the image of the "

type itemArgs struct {
	ItemName string `json:"itemName" required:"true" description:"Name of the sports item, for example Tennis ball"`
}

type addArgs struct {
	ItemName string `json:"itemName" required:"true" description:"Name of the sports item to add"`
	Quantity int    `json:"quantity" min:"1" description:"Number of units to add"`
}

type changeArgs struct {
	ItemName string `json:"itemName" required:"true" description:"Name of the cart item"`
	Quantity int    `json:"quantity" min:"0" description:"New quantity. 0 removes the item"`
}

// format is an output encoding for carts and orders.
type format int

const (
	formatJSON format = iota
	formatXML
	formatMarkdown
)

func (f format) String() string {
	switch f {
	case formatJSON:
		return "json"
	case formatXML:
		return "xml"
	default:
		return "markdown"
	}
}

func (s *Store) encode(v any, f format) (string, error) {
	switch f {
	case formatJSON:
		b, err := json.Marshal(v)
		return string(b), err
	case formatXML:
		b, err := xml.Marshal(v)
		return string(b), err
	default:
		return s.markdown.Render(v), nil
	}
}

func readOnly() *protocol.ToolAnnotations {
	t := true
	return &protocol.ToolAnnotations{ReadOnlyHint: &t}
}

func (s *Store) registerTools(srv *server.Server) error {
	type entry struct {
		tool    protocol.Tool
		handler server.ToolHandlerFunc
	}
	tools := []entry{
		{protocol.Tool{
			Name:        "get_store_speciality",
			Description: "Describe whats special or unique about Brand Z sports store",
			InputSchema: schema.FromStruct(nil),
			Annotations: readOnly(),
		}, s.getSpeciality},
		{protocol.Tool{
			Name:        "get_items",
			Description: "Get a list of sports equipments or sporting goods that Brand Z Sports store sells.",
			InputSchema: schema.FromStruct(nil),
			Annotations: readOnly(),
		}, s.getItems},
		{protocol.Tool{
			Name: "get_selling_price_currency",
			Description: "Get the currency for the various items selling price. Brand Z Sports store's selling price " +
				"for an item would also be the same as the cost price of the item from a vendor's point of view.",
			InputSchema: schema.FromStruct(nil),
			Annotations: readOnly(),
		}, s.getCurrency},
		{protocol.Tool{
			Name:        "get_selling_price_of_item",
			Description: "Get selling price of items that Brand Z Sports store sells. Is also the item's cost from buyers point of view",
			InputSchema: schema.FromStruct(itemArgs{}),
			Annotations: readOnly(),
		}, s.getPrice},
		{protocol.Tool{
			Name:        "get_details_of_item",
			Description: "Get details of items that Brand Z Sports store sells.",
			InputSchema: schema.FromStruct(itemArgs{}),
			Annotations: readOnly(),
		}, s.getDetails},
		{protocol.Tool{
			Name:        "add_to_cart_item",
			Description: "Add to cart item by specifying item name and its quantity",
			InputSchema: schema.FromStruct(addArgs{}),
		}, s.addToCart},
		{protocol.Tool{
			Name:        "change_quantity_of_cart_item",
			Description: "Change the quantity of the specified cart item to specified quantity",
			InputSchema: schema.FromStruct(changeArgs{}),
		}, s.changeQuantity},
		{protocol.Tool{
			Name: "remove_item_from_cart_completely",
			Description: "Remove item  from cart item by specifying item name. Can think that its quantity was reduced to 0. " +
				"Item will no longer occur in the cart.",
			InputSchema: schema.FromStruct(itemArgs{}),
		}, s.removeFromCart},
		{protocol.Tool{
			Name:        "checkout_and_pay",
			Description: "Check out items in the cart. Payment is automatic. After checkout order is available as last order.",
			InputSchema: schema.FromStruct(nil),
		}, s.checkout},
	}

	for _, img := range []struct {
		name string
		id   catalog.ItemID
		what string
	}{
		{"get_tennis_ball_image", catalog.TennisBall, "tennis ball"},
		{"get_tennis_net_image", catalog.TennisNet, "tennis net"},
		{"get_tennis_raquet_image", catalog.TennisRaquet, "tennis raquet"},
		{"get_football_image", catalog.Football, "football"},
	} {
		it, ok := s.catalog.ByID(img.id)
		if !ok {
			continue
		}
		tools = append(tools, entry{protocol.Tool{
			Name:        img.name,
			Description: imageToolDescription + img.what,
			InputSchema: schema.FromStruct(nil),
			Annotations: readOnly(),
		}, s.imageTool(it)})
	}

	for _, f := range []format{formatJSON, formatXML, formatMarkdown} {
		tools = append(tools,
			entry{protocol.Tool{
				Name:        "get_cart_content_in_" + f.String(),
				Description: "get cart content formatted in " + f.String(),
				InputSchema: schema.FromStruct(nil),
				Annotations: readOnly(),
			}, s.cartTool(f)},
			entry{protocol.Tool{
				Name:        "get_last_order_content_in_" + f.String(),
				Description: "get last order content formatted in " + f.String(),
				InputSchema: schema.FromStruct(nil),
				Annotations: readOnly(),
			}, s.lastOrderTool(f)},
		)
	}

	for _, t := range tools {
		if err := srv.RegisterTool(t.tool, t.handler); err != nil {
			return fmt.Errorf("storefront: %w", err)
		}
	}
	return nil
}

func (s *Store) getSpeciality(context.Context, interface{}, any) ([]protocol.Content, bool) {
	return response.Text(speciality)
}

func (s *Store) getItems(context.Context, interface{}, any) ([]protocol.Content, bool) {
	b, err := json.Marshal(s.catalog.Labels())
	if err != nil {
		return response.FromError("", err)
	}
	return response.Text(string(b))
}

func (s *Store) getCurrency(ctx context.Context, _ interface{}, _ any) ([]protocol.Content, bool) {
	return response.Text(s.session(ctx).Currency())
}

func (s *Store) lookup(arguments any) (catalog.Item, []protocol.Content, bool) {
	args, errContent, isErr := schema.HandleArgs[itemArgs](arguments)
	if isErr {
		return catalog.Item{}, errContent, true
	}
	it, ok := s.catalog.Lookup(args.ItemName)
	if !ok {
		content, _ := response.Error((&shop.NotStockedError{Name: args.ItemName}).Error())
		return catalog.Item{}, content, true
	}
	return it, nil, false
}

func (s *Store) getPrice(_ context.Context, _ interface{}, arguments any) ([]protocol.Content, bool) {
	it, errContent, isErr := s.lookup(arguments)
	if isErr {
		return errContent, true
	}
	return response.Text(strconv.FormatFloat(it.Price, 'f', -1, 64))
}

func (s *Store) getDetails(_ context.Context, _ interface{}, arguments any) ([]protocol.Content, bool) {
	it, errContent, isErr := s.lookup(arguments)
	if isErr {
		return errContent, true
	}
	return response.Text(it.Detail)
}

func (s *Store) addToCart(ctx context.Context, _ interface{}, arguments any) ([]protocol.Content, bool) {
	args, errContent, isErr := schema.HandleArgs[addArgs](arguments)
	if isErr {
		return errContent, true
	}
	s.logger.Debug("adding %d x %s to cart", args.Quantity, args.ItemName)
	err := s.session(ctx).AddToCart(args.ItemName, args.Quantity)
	return response.FromError(fmt.Sprintf("Added %d x %s to the cart", args.Quantity, args.ItemName), err)
}

func (s *Store) changeQuantity(ctx context.Context, _ interface{}, arguments any) ([]protocol.Content, bool) {
	args, errContent, isErr := schema.HandleArgs[changeArgs](arguments)
	if isErr {
		return errContent, true
	}
	err := s.session(ctx).ChangeQuantity(args.ItemName, args.Quantity)
	return response.FromError(fmt.Sprintf("Quantity of %s set to %d", args.ItemName, args.Quantity), err)
}

func (s *Store) removeFromCart(ctx context.Context, _ interface{}, arguments any) ([]protocol.Content, bool) {
	args, errContent, isErr := schema.HandleArgs[itemArgs](arguments)
	if isErr {
		return errContent, true
	}
	err := s.session(ctx).Remove(args.ItemName)
	return response.FromError(fmt.Sprintf("Removed %s from the cart", args.ItemName), err)
}

func (s *Store) checkout(ctx context.Context, _ interface{}, _ any) ([]protocol.Content, bool) {
	order := s.session(ctx).Checkout()
	s.logger.Info("order %s placed, total %v %s", order.OrderNumber, order.Total, order.Currency)
	return response.Text(fmt.Sprintf("Order %s placed. Total %v %s", order.OrderNumber, order.Total, order.Currency))
}

func (s *Store) imageTool(it catalog.Item) server.ToolHandlerFunc {
	return func(context.Context, interface{}, any) ([]protocol.Content, bool) {
		return response.Text(s.imageURL(it))
	}
}

func (s *Store) cartTool(f format) server.ToolHandlerFunc {
	return func(ctx context.Context, _ interface{}, _ any) ([]protocol.Content, bool) {
		out, err := s.encode(s.session(ctx).Cart(), f)
		if err != nil {
			return response.Errorf("encoding cart as %s: %v", f, err)
		}
		return response.Text(out)
	}
}

func (s *Store) lastOrderTool(f format) server.ToolHandlerFunc {
	return func(ctx context.Context, _ interface{}, _ any) ([]protocol.Content, bool) {
		order, err := s.session(ctx).LastOrder()
		if errors.Is(err, shop.ErrNoOrderHistory) {
			return response.Error(noOrderHistory)
		}
		if err != nil {
			return response.Error(err.Error())
		}
		out, err := s.encode(order, f)
		if err != nil {
			return response.Errorf("encoding order as %s: %v", f, err)
		}
		return response.Text(out)
	}
}
