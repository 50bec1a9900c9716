package grpc

import (
	"context"
	"math"

	"github.com/DRSN-tech/order-backoffice/internal/usecase"
	"github.com/DRSN-tech/order-backoffice/pkg/e"
	"github.com/DRSN-tech/order-backoffice/pkg/logger"
	"github.com/DRSN-tech/order-backoffice/pkg/money"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const orderQueryServiceName = "backoffice.v1.OrderQueryService"

// OrderQueryServer — сервис чтения для соседних систем. Сообщения собраны из
// well-known типов, поэтому отдельная кодогенерация не нужна.
type OrderQueryServer interface {
	GetOrderSummary(ctx context.Context, req *wrapperspb.Int64Value) (*structpb.Struct, error)
	GetProductsInfo(ctx context.Context, req *structpb.ListValue) (*structpb.Struct, error)
}

var orderQueryServiceDesc = grpc.ServiceDesc{
	ServiceName: orderQueryServiceName,
	HandlerType: (*OrderQueryServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetOrderSummary", Handler: getOrderSummaryHandler},
		{MethodName: "GetProductsInfo", Handler: getProductsInfoHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "backoffice/v1/order_query.proto",
}

func getOrderSummaryHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.Int64Value)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(OrderQueryServer).GetOrderSummary(ctx, in)
	}

	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + orderQueryServiceName + "/GetOrderSummary"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(OrderQueryServer).GetOrderSummary(ctx, req.(*wrapperspb.Int64Value))
	}
	return interceptor(ctx, in, info, handler)
}

func getProductsInfoHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.ListValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(OrderQueryServer).GetProductsInfo(ctx, in)
	}

	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + orderQueryServiceName + "/GetProductsInfo"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(OrderQueryServer).GetProductsInfo(ctx, req.(*structpb.ListValue))
	}
	return interceptor(ctx, in, info, handler)
}

type OrderQueryService struct {
	orderUC   usecase.OrderUC
	catalogUC usecase.CatalogUC
	logger    logger.Logger
}

func NewOrderQueryService(orderUC usecase.OrderUC, catalogUC usecase.CatalogUC, logger logger.Logger) *OrderQueryService {
	return &OrderQueryService{orderUC: orderUC, catalogUC: catalogUC, logger: logger}
}

// GetOrderSummary возвращает итоги заказа: id, status, total, paid, remaining_debt.
func (g *OrderQueryService) GetOrderSummary(ctx context.Context, req *wrapperspb.Int64Value) (*structpb.Struct, error) {
	const op = "grpc.GetOrderSummary"

	if req.GetValue() <= 0 {
		return nil, GRPCErrorResponse(e.Wrap(op, e.ErrInvalidID))
	}

	summary, err := g.orderUC.Summary(ctx, req.GetValue())
	if err != nil {
		g.logger.Errorf(e.Wrap(op, err), "%s", op)
		return nil, GRPCErrorResponse(e.Wrap(op, err))
	}

	res, err := structpb.NewStruct(map[string]any{
		"id":             summary.ID,
		"customer_id":    summary.CustomerID,
		"status":         string(summary.Status),
		"items_count":    summary.ItemsCount,
		"total":          summary.Total.StringFixed(money.Places),
		"paid":           summary.Paid.StringFixed(money.Places),
		"remaining_debt": summary.RemainingDebt.StringFixed(money.Places),
	})
	if err != nil {
		g.logger.Errorf(e.Wrap(op, err), "%s", op)
		return nil, GRPCErrorResponse(err)
	}

	return res, nil
}

// GetProductsInfo принимает список идентификаторов и возвращает products и not_found.
func (g *OrderQueryService) GetProductsInfo(ctx context.Context, req *structpb.ListValue) (*structpb.Struct, error) {
	const op = "grpc.GetProductsInfo"

	ids, err := toIDs(req)
	if err != nil {
		return nil, GRPCErrorResponse(e.Wrap(op, err))
	}

	res, err := g.catalogUC.GetProductsInfo(ctx, usecase.NewGetProductsReq(ids))
	if err != nil {
		g.logger.Errorf(e.Wrap(op, err), "%s", op)
		return nil, GRPCErrorResponse(e.Wrap(op, err))
	}

	products := make([]any, 0, len(res.Products))
	for _, p := range res.Products {
		item := map[string]any{
			"id":          p.ID,
			"name":        p.Name,
			"price":       p.Price.StringFixed(money.Places),
			"category_id": p.CategoryID,
		}
		if p.ImageKey != nil {
			item["image"] = *p.ImageKey
		}
		products = append(products, item)
	}

	notFound := make([]any, 0, len(res.NotFoundProducts))
	for _, id := range res.NotFoundProducts {
		notFound = append(notFound, id)
	}

	out, err := structpb.NewStruct(map[string]any{
		"products":  products,
		"not_found": notFound,
	})
	if err != nil {
		g.logger.Errorf(e.Wrap(op, err), "%s", op)
		return nil, GRPCErrorResponse(err)
	}

	return out, nil
}

// toIDs принимает только целые положительные числа.
func toIDs(list *structpb.ListValue) ([]int64, error) {
	if len(list.GetValues()) == 0 {
		return nil, e.FieldError("ids", "is required")
	}

	ids := make([]int64, 0, len(list.GetValues()))
	for _, v := range list.GetValues() {
		n, ok := v.GetKind().(*structpb.Value_NumberValue)
		if !ok || n.NumberValue <= 0 || n.NumberValue != math.Trunc(n.NumberValue) {
			return nil, e.FieldError("ids", "is invalid")
		}
		ids = append(ids, int64(n.NumberValue))
	}

	return ids, nil
}
