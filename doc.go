/*
Package basilisk maps remote key-value collections (hashes, lists, sorted
sets) and schema-defined model records onto plain in-memory objects, deferring
and batching the actual store operations.

We implement:

1. Models, records described by a field schema that is resolved across an
inheritance chain, bound to exactly one connection per namespace, and
persisted either as one hash per record (key-value backend) or as one
document per record (document backend).

2. Buffered proxies for hashes and sorted sets, which queue local edits in a
changelist and flush them with at most one batched delete plus one batched
set per save, no matter how many edits were queued.

3. An immediate proxy for lists, where every operation is a direct store call.

4. Two interchangeable backends behind the same capability interfaces: a
transient in-memory one and a Bolt-backed one, so the library runs with no
external store at all.

# Namespaces

A namespace names one logical backing store. Each namespace owns a single
registry, created lazily from the namespace's configuration entry on first
use and kept for the lifetime of the process. Models register themselves in
their namespace exactly once; defining the same model name again returns the
already-registered schema rather than a second live connection.

# Buffered writes

Hash and sorted-set proxies never write through. Edits append to a per-key
changelist, and only the last queued operation per key survives the flush:

	h, _ := basilisk.NewHash("cache", "greetings")
	h.Set("hello", "world")
	h.Set("hello", "basilisk")
	h.Delete("stale")
	err := h.Save() // one batched delete, one batched set

Reads always bypass the changelist and reflect live store state; callers must
flush before reading their own uncommitted writes.

# A model example

	basilisk.Configure("cache", basilisk.Config{
		OpenKV: func() (basilisk.KV, error) { return basilisk.NewMemoryKV(), nil },
	})

	item := basilisk.MustDefine("cache", "Item", []*basilisk.Field{
		basilisk.NewField("id", basilisk.Key()),
		basilisk.NewField("name"),
		basilisk.JSONField("attachments"),
	})

	saved, err := item.New(map[string]any{"name": "first"}).Save(true)
	...
	again, err := item.Get(saved.ID())

Neither proxies nor records are safe for concurrent use; they expect a single
writer per object, consistent with the backing clients' own connection-pool
guarantees.
*/
package basilisk
