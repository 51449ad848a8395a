package controller

// ClassifyContacts sets IsGrounded when a contact is walkable, that is within
// slopeLimit degrees of the up axis, and removes from the velocity its component along
// every contact normal.
func ClassifyContacts(state BodyState, slopeLimit float64) BodyState {
	for _, contact := range state.Contacts {
		if angle(state.Up, contact.Normal) <= slopeLimit {
			state.IsGrounded = true
		}

		state.Velocity = state.Velocity.Sub(project(state.Velocity, contact.Normal))
	}

	return state
}
