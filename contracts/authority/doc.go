/*
Package authority implements Authority contract which keeps the registry of
certification authorities.

Every authority is identified by a unique string ID and carries a display
name, a website reference and an activity flag. The registry is controlled by
a single owner account: only a transaction witnessed by the owner can
register, update or deactivate authorities and transfer the ownership. The
owner is set on contract deployment (the first deployment argument or the
deploying transaction sender if omitted).

Authorities are never removed. Deactivation clears the activity flag, while
an update re-publishes the authority and makes it active again. Creation and
update times are block heights.

# Contract notifications

Authority contract does not produce notifications to process.
*/
package authority

/*
Contract storage model.

Current conventions:
 <id>: authority ID string
 <hash>: RIPEMD-160 digest of the <id>

# Summary
Key-value storage format:
 - 'o' -> interop.Hash160
   script hash of the registry owner
 - 'a<hash>' -> std.Serialize(Authority)
   authority record

# Authorities
Contract stores all authorities ever registered.
*/
