package server

// startEventBroadcaster subscribes to the registry and forwards every
// committed event into the hub's broadcast channel. Runs until server
// shutdown.
func (s *BoardServer) startEventBroadcaster() {
	events := s.registry.Subscribe()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.registry.Unsubscribe(events)

		s.logger.Debugw("Event broadcaster started")

		for {
			select {
			case <-s.ctx.Done():
				s.logger.Debugw("Event broadcaster stopping")
				return
			case event := <-events:
				select {
				case s.broadcast <- event:
				case <-s.ctx.Done():
					return
				default:
					// Hub overloaded, drop rather than block the subscription
					s.broadcastDrops.Add(1)
					s.logger.Warnw("Broadcast channel full, dropping event",
						"event_type", event.Type,
						"seq", event.Seq,
					)
				}
			}
		}
	}()
}
