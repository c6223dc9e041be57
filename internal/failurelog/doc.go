// Package failurelog keeps a log of addresses the mail transport rejected.
//
// Entries are written by a Recorder observer attached to dispatch runs and
// read back to exclude or retry failed addresses. A Scheduler prunes entries
// older than the retention period on a cron schedule.
package failurelog
