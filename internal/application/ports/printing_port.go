package ports

import "context"

// OrderPrinter colaborador externo de impresión de tickets.
// AutoPrint imprime en todas las impresoras activas con auto-impresión; Print en todas las activas.
// Sus fallas se reportan pero nunca alteran el estado del pedido.
type OrderPrinter interface {
	AutoPrint(ctx context.Context, orderID string) error
	Print(ctx context.Context, orderID string) error
}
