package actor

import (
	"sync"
	"time"
)

// whereIsTimeout bounds lookups, the registry never blocks so it only fires if it's gone
const whereIsTimeout = 5 * time.Second

var (
	registryOnce sync.Once
	registryPID  UserPID
)

type cmdRegister struct {
	name string
	pid  UserPID
}

type cmdUnregister struct {
	name string
}

type cmdUnregisterPID struct {
	pid UserPID
}

type cmdWhereIs struct {
	name string
}

// whereIsReply boxes the result, a nil pid is a valid answer
type whereIsReply struct {
	pid UserPID
}

func registry() UserPID {
	registryOnce.Do(func() {
		registryPID = Spawn(registryLoop)
	})
	return registryPID
}

func registryLoop(a *Actor) {
	names := make(map[string]UserPID)
	a.Receive(func(message interface{}) (loop bool) {
		switch msg := message.(type) {
		case cmdRegister:
			if current, ok := names[msg.name]; ok && alive(current) && !SamePID(current, msg.pid) {
				a.logger.Warn().Str("name", msg.name).Str("holder", current.ID()).
					Msg("register: name already taken")
				return true
			}
			names[msg.name] = msg.pid
		case cmdUnregister:
			delete(names, msg.name)
		case cmdUnregisterPID:
			for name, p := range names {
				if SamePID(p, msg.pid) {
					delete(names, name)
				}
			}
		case cmdWhereIs:
			p := names[msg.name]
			if p != nil && !alive(p) {
				delete(names, msg.name)
				p = nil
			}
			a.Reply(whereIsReply{pid: p})
		default:
			a.logger.Debug().Interface("message", msg).Msg("registry: unknown message")
		}
		return true
	})
}

// Register associates name with the process. It's asynchronous, a name held by a live
// process is not taken over.
func Register(name string, p UserPID) {
	Send(registry(), cmdRegister{name: name, pid: p})
}

func Unregister(name string) {
	Send(registry(), cmdUnregister{name: name})
}

// WhereIs returns the process registered under name, nil if there's none
func WhereIs(name string) UserPID {
	resp, err := Ask(registry(), cmdWhereIs{name: name}, whereIsTimeout)
	if err != nil {
		return nil
	}
	reply, ok := resp.(whereIsReply)
	if !ok {
		return nil
	}
	return reply.pid
}

func unregisterPID(p UserPID) {
	r := registry()
	if SamePID(p, r) {
		return
	}
	Send(r, cmdUnregisterPID{pid: p})
}

func alive(p UserPID) bool {
	if l, ok := localPID(p); ok {
		return l.Alive()
	}
	return true
}
