package resolver

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// TriggerCredentials runs full-set credential issuance for a document on
// demand (Operator maintenance path). It is idempotent: once issuance has
// run for a document the call is a no-op, even if not every holder
// actually received a credential (best effort, not guaranteed delivery).
func (e *Engine) TriggerCredentials(ctx context.Context, document common.Hash) ([]common.Address, error) {
	e.mu.Lock()
	if e.credentialIssued[document] {
		e.mu.Unlock()
		return nil, nil
	}
	holders := make([]common.Address, len(e.holders[document]))
	copy(holders, e.holders[document])
	if len(holders) == 0 {
		e.mu.Unlock()
		return nil, nil
	}
	e.credentialIssued[document] = true
	e.mu.Unlock()

	e.issueCredentials(ctx, document, holders, true)
	return holders, nil
}
