// Package finance tracks personal money: wallets, the transactions that move
// money in and out of them, debts owed by friends after a shared expense, and
// the valuations of investment wallets.
//
// The core functionalities include:
//   - Wallets: normal wallets hold spending money, investment wallets hold
//     capital whose value is declared from time to time.
//   - Transactions: expenses and incomes, with capital deposits and
//     withdrawals on investment wallets.
//   - Debts: an expense split with friends leaves each of them owing a share.
//   - Accounting: stateless functions computing balances, net worth, monthly
//     spend, category breakdowns and investment performance.
//
// Persistence is abstracted by the Store interface, see package sqlstore for
// the SQL implementation. The Repository combines a Store with the accounting
// functions and is the foundation of the `fin` command-line tool and its HTTP
// server.
package finance
