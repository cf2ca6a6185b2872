package thermocouple

import (
	"context"
	"fmt"
)

var ErrBusBusy = fmt.Errorf("I2C engine is busy (command not completed)")

type AddressableReader interface {
	ReadFromAddr(ctx context.Context, address byte, buffer []byte) error
}

type AddressableWriter interface {
	WriteToAddr(ctx context.Context, address byte, buffer []byte) error
	Release(ctx context.Context) error
}

// AddressableTransactor performs a combined transaction: w is written to the
// device and r is filled from it without releasing the bus in between.
type AddressableTransactor interface {
	TxToAddr(ctx context.Context, address byte, w, r []byte) error
}

type I2CBus interface {
	AddressableReader
	AddressableWriter
	AddressableTransactor
}

// RegisterBus is the subset of the bus a register-mapped device needs.
type RegisterBus interface {
	AddressableWriter
	AddressableTransactor
}
