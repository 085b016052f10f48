/*
Package roles implements the Role Registry contract.

The contract issues non-transferable credentials binding one of three roles
(Admin, Supervisor, Associate) to an identity. Exactly one identity is the
admin at any time and holds the Admin credential. Supervisor and Associate
credentials are issued through single-use claims: the admin (or a supervisor,
for Associate) generates a claim bound to a recipient and hands its hash over
as a link; the recipient redeems it with claimNFT.

Minting into a contract wallet calls its onNEP11Payment method. Claim
redemption and revocation are protected by a reentrancy lock.

# Contract notifications

CredentialMinted notification. This notification is produced when a
credential is issued by initialization, admin transfer or claim redemption.

	CredentialMinted:
	  - name: roleID
	    type: Integer
	  - name: recipient
	    type: Hash160
	  - name: tokenID
	    type: Integer

CredentialRevoked notification. This notification is produced when a
credential is burnt by revocation or admin transfer.

	CredentialRevoked:
	  - name: roleID
	    type: Integer
	  - name: wallet
	    type: Hash160
	  - name: tokenID
	    type: Integer

AdminTransferred notification.

	AdminTransferred:
	  - name: oldAdmin
	    type: Hash160
	  - name: newAdmin
	    type: Hash160
	  - name: ok
	    type: Boolean

BaseURIUpdated notification.

	BaseURIUpdated:
	  - name: uri
	    type: String

ClaimLinkGenerated notification. This notification is produced when a new
claim is stored. The hash is the value to put into a claim link.

	ClaimLinkGenerated:
	  - name: roleID
	    type: Integer
	  - name: recipient
	    type: Hash160
	  - name: hash
	    type: Hash256

EventContractUpdated notification.

	EventContractUpdated:
	  - name: contractID
	    type: String
*/
package roles

/*
Contract storage model.

# Summary
Current conventions:
 <id>: 8-byte big-endian token identifier
 <owner>: 20-byte script hash of credential holder
 <role>: 1-byte role identifier (1 admin, 2 supervisor, 3 associate)
 <hash>: 32-byte claim key

Key-value storage format:
 - 'admin' -> interop.Hash160
   current admin
 - 'paused' -> bool
   claim redemption is blocked if true
 - 'locked' -> bool
   reentrancy lock, false outside of claimNFT and revokeCredential
 - 'nextTokenID' -> int
   identifier of the next credential, starts at 1
 - 'baseURI' -> string
   metadata URI shared by all credentials
 - 'eventContract' -> string
   informational reference to the Presence contract
 - 't<id>' -> std.Serialize(Token)
   credential records
 - 'r<owner><role>' -> int
   credential held by owner for the role
 - 'c<hash>' -> std.Serialize(Claim)
   claims, consumed ones are kept with Valid set to false
 - 'a<operator>' -> bool
   operators allowed to call recoverAdmin

# Setting
Contract is initialized either on deployment (if admin is passed as deploy
data) or with the initialize method.
*/
