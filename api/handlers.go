package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/xraph/fareledger"
	"github.com/xraph/fareledger/account"
)

// fundRequest carries the value sent with a funding call. A missing amount
// funds nothing and is refused like any deposit below the minimum.
type fundRequest struct {
	Amount string `json:"amount"`
}

type tripRequest struct {
	TripCode string `json:"trip_code" binding:"required"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"deployed": s.ledger.IsDeployed(),
		"sequence": s.ledger.Sequence(),
	})
}

// ──────────────────────────────────────────────────
// Calls
// ──────────────────────────────────────────────────

func (s *Server) fundWallet(c *gin.Context) {
	var req fundRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err)
		return
	}
	sched, err := s.ledger.Schedule()
	if err != nil {
		s.fail(c, err)
		return
	}
	amount := fareledger.Zero(sched.Currency())
	if req.Amount != "" {
		amount, err = fareledger.ParseMoney(req.Amount, sched.Currency())
		if err != nil {
			badRequest(c, err)
			return
		}
	}

	acct, err := s.ledger.FundWallet(c.Request.Context(), callerFrom(c), amount)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, acct)
}

func (s *Server) startTrip(c *gin.Context) {
	var req tripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	rec, err := s.ledger.StartTrip(c.Request.Context(), callerFrom(c), req.TripCode)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (s *Server) withdraw(c *gin.Context) {
	w, err := s.ledger.Withdraw(c.Request.Context(), callerFrom(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

func (s *Server) recordStaff(c *gin.Context) {
	rec, err := s.ledger.RecordStaff(c.Request.Context(), callerFrom(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

// ──────────────────────────────────────────────────
// Queries
// ──────────────────────────────────────────────────

func (s *Server) owner(c *gin.Context) {
	owner, err := s.ledger.Owner()
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"owner": owner})
}

func (s *Server) balance(c *gin.Context) {
	bal, err := s.ledger.Balance()
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": bal})
}

func (s *Server) withdrawals(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"withdrawals": s.ledger.Withdrawals()})
}

func (s *Server) passengerCount(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"count": s.ledger.PassengerCount()})
}

func (s *Server) passenger(c *gin.Context) {
	index, ok := indexParam(c)
	if !ok {
		return
	}
	addr, err := s.ledger.Passenger(index)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"index": index, "address": addr})
}

func (s *Server) passengerBalance(c *gin.Context) {
	addr, ok := addressParam(c)
	if !ok {
		return
	}
	bal, err := s.ledger.PassengerBalance(addr)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"address": addr, "balance": bal})
}

func (s *Server) staffRecord(c *gin.Context) {
	addr, ok := addressParam(c)
	if !ok {
		return
	}
	rec, err := s.ledger.StaffRecord(addr)
	if err != nil {
		s.fail(c, err)
		return
	}
	window, err := s.ledger.StaffWindow()
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"record": rec, "next_allowed": rec.NextAllowed(window)})
}

func (s *Server) schedule(c *gin.Context) {
	sched, err := s.ledger.Schedule()
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"fares": sched.Fares()})
}

func (s *Server) scheduleEntry(c *gin.Context) {
	index, ok := indexParam(c)
	if !ok {
		return
	}
	code, err := s.ledger.TripCode(index)
	if err != nil {
		s.fail(c, err)
		return
	}
	price, err := s.ledger.TripCost(index)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"index": index, "trip_code": code, "price": price})
}

func (s *Server) fare(c *gin.Context) {
	code := c.Param("code")
	price, err := s.ledger.TripPrice(code)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trip_code": code, "price": price})
}

func (s *Server) tripCount(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"count": s.ledger.TripCount()})
}

func (s *Server) trip(c *gin.Context) {
	index, ok := indexParam(c)
	if !ok {
		return
	}
	rec, err := s.ledger.Trip(index)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) staffCount(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"count": s.ledger.StaffRecordCount()})
}

func (s *Server) staffMember(c *gin.Context) {
	index, ok := indexParam(c)
	if !ok {
		return
	}
	addr, err := s.ledger.StaffMember(index)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"index": index, "address": addr})
}

// indexParam parses the :index path parameter, answering 400 when it is not
// a non-negative integer.
func indexParam(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		badRequest(c, fmt.Errorf("%w: index %q", fareledger.ErrInvalidInput, c.Param("index")))
		return 0, false
	}
	return index, true
}

func addressParam(c *gin.Context) (account.Address, bool) {
	addr, err := account.ParseAddress(c.Param("address"))
	if err != nil {
		badRequest(c, err)
		return account.Zero, false
	}
	return addr, true
}
