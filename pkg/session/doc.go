/*
Package session serializes access to saved scripts.

A Manager wraps a ports.ScriptStore and holds a lock per script name while an
operation runs, so a save and the event announcing it are observed in the
same order by every client. With a distributed locker the guarantee extends
across replicas sharing one store.
*/
package session
