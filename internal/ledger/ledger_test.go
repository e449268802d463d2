package ledger_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/integraledger/integra-api/internal/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	doc   = common.HexToHash("0xd0c0d0c0d0c0d0c0d0c0d0c0d0c0d0c0d0c0d0c0d0c0d0c0d0c0d0c0d0c0d0c0")
	alice = common.HexToAddress("0x00000000000000000000000000000000000000AA")
	bob   = common.HexToAddress("0x00000000000000000000000000000000000000BB")
	carol = common.HexToAddress("0x00000000000000000000000000000000000000CC")
)

func TestFactoryCoversEveryStandard(t *testing.T) {
	standards := []ledger.Standard{
		ledger.StandardERC721, ledger.StandardERC20, ledger.StandardERC1155,
		ledger.StandardERC5192, ledger.StandardERC4671, ledger.StandardERC2981,
		ledger.StandardERC4907, ledger.StandardERC4626, ledger.StandardERC6909,
		ledger.StandardERC3525, ledger.StandardERC3643,
	}
	for _, standard := range standards {
		valueLedger, err := ledger.New(standard)
		require.NoError(t, err, standard)
		assert.Equal(t, standard, valueLedger.Standard())
	}

	_, err := ledger.New("erc777")
	assert.ErrorIs(t, err, ledger.ErrUnknownStandard)
}

func TestSingleSlotStandards(t *testing.T) {
	assert.True(t, ledger.SingleSlot(ledger.StandardERC20))
	assert.True(t, ledger.SingleSlot(ledger.StandardERC4626))
	assert.True(t, ledger.SingleSlot(ledger.StandardERC3643))
	assert.False(t, ledger.SingleSlot(ledger.StandardERC721))
	assert.False(t, ledger.SingleSlot(ledger.StandardERC1155))
}

func TestERC721_OneOwnerPerSlot(t *testing.T) {
	l := ledger.NewERC721Ledger()
	ctx := context.Background()

	require.NoError(t, l.Mint(ctx, doc, 1, alice, big.NewInt(1)))
	assert.ErrorIs(t, l.Mint(ctx, doc, 1, bob, big.NewInt(1)), ledger.ErrSlotOccupied)
	assert.ErrorIs(t, l.Mint(ctx, doc, 2, bob, big.NewInt(5)), ledger.ErrNonFungibleAmount)

	owner, ok := l.OwnerOf(doc, 1)
	require.True(t, ok)
	assert.Equal(t, alice, owner)
	assert.Zero(t, l.BalanceOf(doc, 1, alice).Cmp(big.NewInt(1)))
	assert.Zero(t, l.BalanceOf(doc, 1, bob).Sign())

	require.NoError(t, l.Transfer(ctx, doc, 1, alice, bob, nil))
	owner, _ = l.OwnerOf(doc, 1)
	assert.Equal(t, bob, owner)
	assert.ErrorIs(t, l.Transfer(ctx, doc, 1, alice, carol, nil), ledger.ErrInsufficientBalance)
}

func TestERC20Votes_DelegationFollowsBalances(t *testing.T) {
	l := ledger.NewERC20VotesLedger()
	ctx := context.Background()

	require.NoError(t, l.Mint(ctx, doc, 0, alice, big.NewInt(100)))
	// undelegated power stays with the holder
	assert.Zero(t, l.Votes(doc, alice).Cmp(big.NewInt(100)))

	l.Delegate(doc, alice, carol)
	assert.Zero(t, l.Votes(doc, alice).Sign())
	assert.Zero(t, l.Votes(doc, carol).Cmp(big.NewInt(100)))

	require.NoError(t, l.Transfer(ctx, doc, 0, alice, bob, big.NewInt(40)))
	assert.Zero(t, l.Votes(doc, carol).Cmp(big.NewInt(60)))
	assert.Zero(t, l.Votes(doc, bob).Cmp(big.NewInt(40)))
	assert.Zero(t, l.BalanceOf(doc, 0, alice).Cmp(big.NewInt(60)))

	assert.ErrorIs(t, l.Transfer(ctx, doc, 0, bob, carol, big.NewInt(41)), ledger.ErrInsufficientBalance)
}

func TestERC1155_PerSlotBalancesAndApprovals(t *testing.T) {
	l := ledger.NewERC1155Ledger()
	ctx := context.Background()

	require.NoError(t, l.Mint(ctx, doc, 1, alice, big.NewInt(10)))
	require.NoError(t, l.Mint(ctx, doc, 2, alice, big.NewInt(5)))
	assert.Zero(t, l.BalanceOf(doc, 1, alice).Cmp(big.NewInt(10)))
	assert.Zero(t, l.BalanceOf(doc, 2, alice).Cmp(big.NewInt(5)))

	require.NoError(t, l.Transfer(ctx, doc, 1, alice, bob, big.NewInt(4)))
	assert.Zero(t, l.BalanceOf(doc, 1, bob).Cmp(big.NewInt(4)))

	assert.False(t, l.IsApprovedForAll(alice, bob))
	l.SetApprovalForAll(alice, bob, true)
	assert.True(t, l.IsApprovedForAll(alice, bob))
}

func TestERC5192_SoulboundHasNoTransferPath(t *testing.T) {
	l := ledger.NewERC5192Ledger()
	ctx := context.Background()

	require.NoError(t, l.Mint(ctx, doc, 1, alice, big.NewInt(1)))
	assert.True(t, l.Locked(doc, 1))
	assert.False(t, l.Locked(doc, 2))

	// the soulbound ledger never satisfies the transfer extension
	var valueLedger ledger.ValueLedger = l
	_, transferable := valueLedger.(ledger.Transferable)
	assert.False(t, transferable)
}

func TestERC4671_InvalidationKeepsOwnership(t *testing.T) {
	l := ledger.NewERC4671Ledger()
	ctx := context.Background()

	require.NoError(t, l.Mint(ctx, doc, 1, alice, big.NewInt(1)))
	assert.True(t, l.IsValid(doc, 1))
	assert.False(t, l.IsValid(doc, 2))

	l.Invalidate(doc, 1)
	assert.False(t, l.IsValid(doc, 1))
	owner, ok := l.OwnerOf(doc, 1)
	require.True(t, ok)
	assert.Equal(t, alice, owner)
}

func TestERC2981_RoyaltyComputation(t *testing.T) {
	l := ledger.NewERC2981Ledger()
	ctx := context.Background()

	require.NoError(t, l.Mint(ctx, doc, 1, alice, big.NewInt(1)))

	receiver, royalty := l.RoyaltyInfo(doc, big.NewInt(10_000))
	assert.Equal(t, common.Address{}, receiver)
	assert.Zero(t, royalty.Sign())

	l.SetRoyalty(doc, carol, 250) // 2.5%
	receiver, royalty = l.RoyaltyInfo(doc, big.NewInt(10_000))
	assert.Equal(t, carol, receiver)
	assert.Zero(t, royalty.Cmp(big.NewInt(250)))
}

func TestERC4907_UserGrantExpiresAndClearsOnTransfer(t *testing.T) {
	l := ledger.NewERC4907Ledger()
	ctx := context.Background()

	require.NoError(t, l.Mint(ctx, doc, 1, alice, big.NewInt(1)))

	future := uint64(4102444800) // 2100-01-01
	l.SetUser(doc, 1, bob, future)
	assert.Equal(t, bob, l.UserOf(doc, 1))

	l.SetUser(doc, 1, bob, 1) // long expired
	assert.Equal(t, common.Address{}, l.UserOf(doc, 1))

	l.SetUser(doc, 1, bob, future)
	require.NoError(t, l.Transfer(ctx, doc, 1, alice, carol, nil))
	assert.Equal(t, common.Address{}, l.UserOf(doc, 1))
}

func TestERC4626_SharePricing(t *testing.T) {
	l := ledger.NewERC4626Ledger()
	ctx := context.Background()

	// first deposit prices 1:1
	require.NoError(t, l.Mint(ctx, doc, 0, alice, big.NewInt(100)))
	assert.Zero(t, l.BalanceOf(doc, 0, alice).Cmp(big.NewInt(100)))
	assert.Zero(t, l.TotalAssets(doc).Cmp(big.NewInt(100)))

	require.NoError(t, l.Mint(ctx, doc, 0, bob, big.NewInt(50)))
	assert.Zero(t, l.BalanceOf(doc, 0, bob).Cmp(big.NewInt(50)))
	assert.Zero(t, l.TotalAssets(doc).Cmp(big.NewInt(150)))

	assert.Zero(t, l.ConvertToAssets(doc, big.NewInt(50)).Cmp(big.NewInt(50)))
}

func TestERC6909_OperatorsAndSlotBalances(t *testing.T) {
	l := ledger.NewERC6909Ledger()
	ctx := context.Background()

	require.NoError(t, l.Mint(ctx, doc, 3, alice, big.NewInt(7)))
	require.NoError(t, l.Transfer(ctx, doc, 3, alice, bob, big.NewInt(3)))
	assert.Zero(t, l.BalanceOf(doc, 3, alice).Cmp(big.NewInt(4)))

	assert.False(t, l.IsOperator(alice, bob))
	l.SetOperator(alice, bob, true)
	assert.True(t, l.IsOperator(alice, bob))
	l.SetOperator(alice, bob, false)
	assert.False(t, l.IsOperator(alice, bob))
}

func TestERC3525_ValueMovesWithinValueSlot(t *testing.T) {
	l := ledger.NewERC3525Ledger()
	ctx := context.Background()

	require.NoError(t, l.Mint(ctx, doc, 1, alice, big.NewInt(100)))
	require.NoError(t, l.Mint(ctx, doc, 2, bob, big.NewInt(10)))
	assert.ErrorIs(t, l.Mint(ctx, doc, 1, carol, big.NewInt(1)), ledger.ErrSlotOccupied)

	// both tokens start in the default value slot
	require.NoError(t, l.TransferValue(doc, 1, 2, big.NewInt(30)))
	assert.Zero(t, l.BalanceOf(doc, 1, alice).Cmp(big.NewInt(70)))
	assert.Zero(t, l.BalanceOf(doc, 2, bob).Cmp(big.NewInt(40)))

	l.AssignValueSlot(doc, 2, 9)
	assert.ErrorIs(t, l.TransferValue(doc, 1, 2, big.NewInt(1)), ledger.ErrValueSlotMismatch)

	assert.ErrorIs(t, l.TransferValue(doc, 1, 99, big.NewInt(1)), ledger.ErrInsufficientBalance)
}

func TestERC3643_ComplianceGatesEveryMove(t *testing.T) {
	l := ledger.NewERC3643Ledger()
	ctx := context.Background()

	err := l.Mint(ctx, doc, 0, alice, big.NewInt(100))
	var notCompliant *ledger.NotCompliantError
	require.ErrorAs(t, err, &notCompliant)
	assert.Equal(t, alice, notCompliant.Address)

	l.RegisterIdentity(alice)
	require.NoError(t, l.Mint(ctx, doc, 0, alice, big.NewInt(100)))

	// recipient must be verified too
	err = l.Transfer(ctx, doc, 0, alice, bob, big.NewInt(10))
	require.ErrorAs(t, err, &notCompliant)
	assert.Equal(t, bob, notCompliant.Address)

	l.RegisterIdentity(bob)
	require.NoError(t, l.Transfer(ctx, doc, 0, alice, bob, big.NewInt(10)))

	l.SetFrozen(alice, true)
	err = l.Transfer(ctx, doc, 0, alice, bob, big.NewInt(10))
	require.ErrorAs(t, err, &notCompliant)
	assert.Equal(t, alice, notCompliant.Address)

	l.SetFrozen(alice, false)
	require.NoError(t, l.Transfer(ctx, doc, 0, alice, bob, big.NewInt(10)))
	assert.Zero(t, l.BalanceOf(doc, 0, bob).Cmp(big.NewInt(20)))
}
