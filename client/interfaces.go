package client

import (
	"github.com/evmlabs/evmsdk/account"
	"github.com/evmlabs/evmsdk/contract"
)

// Compile-time assertions that Client satisfies the capability interfaces
// consumed by the orchestration packages.
var (
	_ account.Client  = (*Client)(nil)
	_ contract.Client = (*Client)(nil)
)
