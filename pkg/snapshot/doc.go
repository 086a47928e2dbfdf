/*
The snapshot package implements icesnap's synchronization engine. It mirrors
a source tree into a destination tree while handling files that exist only
as remote placeholders.

Each regular file goes through a small state machine:
1) Local or already-downloaded files are copied directly.
2) Stale remote-backed files are materialized first: a single fetch request
   is issued to the provider, then the walker polls the derived local path
   until the provider reports the content as current. The fetched copy is
   released after the snapshot, so materializing a large tree doesn't
   permanently inflate local disk usage.
3) Files already present at the destination under their final name are
   skipped without ever requesting a fetch.

The walk is deliberately sequential: one file is materialized, copied, and
released at a time. Materialization is provider-driven and asynchronous, so
the wait is a polling loop with a fixed interval; the provider offers no
completion callback. The loop is cancellable via context and optionally
bounded by a wait timeout.

Errors on individual entries never abort the walk. They are logged with the
offending path and the walk moves on to the entry's siblings.
*/
package snapshot
