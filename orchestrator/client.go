package orchestrator

const clientBuffer = 16

type ModeClient struct {
	Modes        <-chan *ModeChange
	Id           uint32
	modes        chan *ModeChange
	orchestrator *Orchestrator
}

// Subscribe delivers every subsequent mode change until Cancel is called.
func (o *Orchestrator) Subscribe() *ModeClient {
	modes := make(chan *ModeChange, clientBuffer)

	client := &ModeClient{
		Modes:        modes,
		modes:        modes,
		orchestrator: o,
	}

	o.mu.Lock()
	client.Id = o.nextClientID
	o.nextClientID++
	o.clients[client.Id] = client
	o.mu.Unlock()

	return client
}

func (c *ModeClient) Cancel() {
	c.orchestrator.mu.Lock()
	defer c.orchestrator.mu.Unlock()

	if _, ok := c.orchestrator.clients[c.Id]; !ok {
		return
	}

	delete(c.orchestrator.clients, c.Id)
	close(c.modes)
}
