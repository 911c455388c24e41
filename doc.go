// Package fareledger provides a fare-management ledger for Go applications.
//
// Passengers pre-fund a wallet, spend from it to start trips identified by a
// trip code with a fixed fare, the owner withdraws the collected fares, and
// staff log an attendance record at most once per staff window (24 hours by
// default).
//
// FareLedger is a library, not a service. It provides:
//
//   - Serialized writes: one operation runs to completion before the next
//   - All-or-nothing operations backed by an append-only journal
//   - State rebuilt by replaying the journal on start
//   - Named rejection reasons for every refused operation
//   - Pluggable stores (memory, SQLite, PostgreSQL, MongoDB, MySQL)
//
// # Quick Start
//
//	import (
//	    "github.com/xraph/fareledger"
//	    "github.com/xraph/fareledger/store/memory"
//	)
//
//	l := fareledger.New(memory.New())
//	if err := l.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer l.Stop()
//
//	owner := fareledger.MustParseAddress("0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266")
//	if _, err := l.Deploy(ctx, owner); err != nil {
//	    log.Fatal(err)
//	}
//
// # Operations
//
// Every mutating operation takes the caller identity explicitly:
//
//	amount, _ := fareledger.ParseMoney("0.1", "eth")
//	l.FundWallet(ctx, passenger, amount)
//
//	code, _ := l.TripCode(0)
//	l.StartTrip(ctx, passenger, code)
//
//	l.Withdraw(ctx, owner)
//	l.RecordStaff(ctx, member)
//
// A refused operation returns a *RejectionError. It matches the sentinel
// with errors.Is and carries a reason code:
//
//	_, err := l.StartTrip(ctx, passenger, "LODSAA")
//	errors.Is(err, fareledger.ErrInvalidTripCode) // true
//	fareledger.Reason(err)                        // "FareLedger__InvalidTripCode"
//
// # Journal
//
// Each accepted operation becomes exactly one journal transaction. The
// transaction is validated against current state, appended to the store and
// only then applied, so a failed append leaves nothing behind. Two writers
// sharing a store cannot both commit the same sequence number; the loser gets
// ErrJournalConflict and catches up.
//
// # Money
//
// All amounts are unsigned integers in the smallest unit the ledger tracks.
// Ether is carried at gwei precision (9 decimals).
//
// # TypeID
//
// Records use TypeIDs:
//
//	fled_01h2xcejqtf2nbrexx3vqjhp41  // Ledger deployment
//	txn_01h2xcejqtf2nbrexx3vqjhp41   // Journal transaction
//	trip_01h455vb4pex5vsknk084sn02q  // Trip record
package fareledger
