/*
Package observability provides tools for monitoring the excursion controller.

It turns controller lifecycle hooks into Prometheus metrics and structured log lines,
and combines several hook sets into one.
*/
package observability
