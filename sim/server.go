package sim

// Server is one of the c parallel service units.
// Busy is advisory: the scheduler only trusts AvailableAt.
type Server struct {
	Index       int     // 1-based
	Busy        bool    // set on assignment, cleared by release
	AvailableAt float64 // absolute time the unit next becomes free
	BusyTime    float64 // sum of service durations handled
	Served      int     // number of customers handled

	current *Customer // last customer assigned; departs when the server is reused
}

// ServerPool owns the servers of a single run. Not shared across runs.
type ServerPool struct {
	servers []*Server
}

// NewServerPool creates c idle servers available from time 0.
func NewServerPool(c int) *ServerPool {
	servers := make([]*Server, c)
	for i := range servers {
		servers[i] = &Server{Index: i + 1}
	}
	return &ServerPool{servers: servers}
}

// Len returns the number of servers.
func (p *ServerPool) Len() int {
	return len(p.servers)
}

// Servers returns the pool contents. Callers MUST NOT mutate them.
func (p *ServerPool) Servers() []*Server {
	return p.servers
}

// FirstAvailable returns the lowest-index server with AvailableAt <= now,
// or nil when every server is busy at now.
func (p *ServerPool) FirstAvailable(now float64) *Server {
	for _, s := range p.servers {
		if s.AvailableAt <= now {
			return s
		}
	}
	return nil
}

// NextAvailableTime returns the minimum AvailableAt across the pool.
func (p *ServerPool) NextAvailableTime() float64 {
	next := p.servers[0].AvailableAt
	for _, s := range p.servers[1:] {
		if s.AvailableAt < next {
			next = s.AvailableAt
		}
	}
	return next
}

// NextDepartureAfter returns the earliest AvailableAt strictly greater than
// now, and false when no server is still busy after now.
func (p *ServerPool) NextDepartureAfter(now float64) (float64, bool) {
	found := false
	next := 0.0
	for _, s := range p.servers {
		if s.AvailableAt > now && (!found || s.AvailableAt < next) {
			next = s.AvailableAt
			found = true
		}
	}
	return next, found
}

// assign hands customer c to server s at time now and returns the previous
// occupant, which has finished by now and departs.
func (s *Server) assign(c *Customer, now float64) *Customer {
	prev := s.current
	if prev != nil {
		prev.depart()
	}
	c.startService(s.Index, now, s.AvailableAt)
	s.AvailableAt = c.EndTime
	s.Busy = true
	s.BusyTime += c.EndTime - c.StartServiceTime
	s.Served++
	s.current = c
	return prev
}

// release departs the last customer once the run is over.
func (s *Server) release() *Customer {
	prev := s.current
	if prev != nil {
		prev.depart()
	}
	s.current = nil
	s.Busy = false
	return prev
}
