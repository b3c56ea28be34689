package topology

// Distributions counts how many nodes were assigned to each variant of
// each kind. The initializer increments the counters while assigning
// variants round-robin; after initialization the struct is read-only.
type Distributions struct {
	Drones  [NumDroneImpls]int
	Clients [NumClientTypes]int
	Servers [NumServerTypes]int
}

// CountDrone records one drone assigned to impl.
func (d *Distributions) CountDrone(impl DroneImpl) {
	d.Drones[impl]++
}

// CountClient records one client assigned to ct.
func (d *Distributions) CountClient(ct ClientType) {
	d.Clients[ct]++
}

// CountServer records one server assigned to st.
func (d *Distributions) CountServer(st ServerType) {
	d.Servers[st]++
}

// TotalDrones returns the sum over all drone implementation counters.
func (d *Distributions) TotalDrones() int {
	n := 0
	for _, c := range d.Drones {
		n += c
	}
	return n
}

// TotalClients returns the sum over all client type counters.
func (d *Distributions) TotalClients() int {
	n := 0
	for _, c := range d.Clients {
		n += c
	}
	return n
}

// TotalServers returns the sum over all server type counters.
func (d *Distributions) TotalServers() int {
	n := 0
	for _, c := range d.Servers {
		n += c
	}
	return n
}
