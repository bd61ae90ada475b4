package storagemock

import "github.com/slok/slimeboard/internal/storage"

var _ storage.KV = &MockKV{}
