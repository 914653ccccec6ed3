package actor

import (
	"github.com/hedisam/backoffactor/sysmsg"
)

type systemHandler struct {
	actor *Actor
}

// HandleSystemMessage is called by the mailbox receiver for system messages
func (sysHandler *systemHandler) HandleSystemMessage(message interface{}) (bool, interface{}) {
	a := sysHandler.actor
	switch msg := message.(type) {
	case sysmsg.Exit:
		if who, ok := msg.Who.(UserPID); ok && msg.Relation == sysmsg.Linked {
			delete(a.children, who.ID())
		}
		switch msg.Relation {
		case sysmsg.Monitored:
			return true, msg
		case sysmsg.Linked:
			if a.trapExited() {
				return true, msg
			}
			if msg.Reason.Type == sysmsg.Normal {
				return false, nil
			}
			// we asked for it with StopChild
			if p, ok := msg.Parent.(UserPID); ok && SamePID(p, a.self) {
				return false, nil
			}
			panic(sysmsg.Exit{
				Who:      a.self,
				Parent:   msg.Who,
				Reason:   msg.Reason,
				Relation: sysmsg.Linked,
			})
		}
	case sysmsg.Shutdown:
		if a.trapExited() {
			return true, msg
		}
		panic(sysmsg.Exit{
			Who:    a.self,
			Parent: msg.Parent,
			Reason: sysmsg.Reason{
				Type:    sysmsg.Kill,
				Details: "shutdown cmd received from supervisor",
			},
			Relation: sysmsg.Linked,
		})
	case sysmsg.Failure:
		if a.handlesFaults() {
			return true, msg
		}
		// nobody is going to decide for it
		if who, ok := msg.Who.(UserPID); ok {
			a.Direct(who, sysmsg.Stop)
		}
	default:
		a.logger.Debug().Interface("message", msg).Msg("unknown system message")
	}
	return false, nil
}
